/*
config.go - Environment-driven application configuration

PURPOSE:
  One struct holding everything the server needs, populated from the
  environment with the TECHCAFE_ prefix. A .env file, if present, is loaded
  by main before this runs.

ENVIRONMENT:
  TECHCAFE_HTTP_ADDR       listen address        (default :8080)
  TECHCAFE_DATA_DIR        data directory        (default ./data)
  TECHCAFE_STORE           snapshot|sqlite|bolt  (default snapshot)
  TECHCAFE_ADMIN_PASSWORD  admin password        (required)
  TECHCAFE_JWT_SECRET      admin token secret    (required)
  TECHCAFE_JWT_EXPIRE_MIN  admin token TTL       (default 60)
  TECHCAFE_NAMES_FILE      display name list     (default display_name.txt)
*/
package config

import (
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// App is the process-wide configuration.
type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	DataDir  string `envconfig:"DATA_DIR" default:"./data"`
	Store    string `envconfig:"STORE" default:"snapshot"`

	AdminPassword string `envconfig:"ADMIN_PASSWORD" required:"true"`
	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin  int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	NamesFile string `envconfig:"NAMES_FILE" default:"display_name.txt"`
}

// Load populates App from TECHCAFE_-prefixed environment variables.
func Load() (App, error) {
	var c App
	err := envconfig.Process("techcafe", &c)
	return c, err
}

// SnapshotPath is the live-table snapshot file location.
func (c App) SnapshotPath() string { return filepath.Join(c.DataDir, "bookings.json") }

// SQLitePath is the sqlite backend's database file location.
func (c App) SQLitePath() string { return filepath.Join(c.DataDir, "bookings.db") }

// BoltPath is the bolt backend's database file location.
func (c App) BoltPath() string { return filepath.Join(c.DataDir, "bookings.bolt") }

// LedgerDir is where the per-day audit CSV files live.
func (c App) LedgerDir() string { return filepath.Join(c.DataDir, "ledger") }
