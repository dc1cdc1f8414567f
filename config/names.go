/*
names.go - Reloadable display-name list

PURPOSE:
  The typeahead name list is process-wide configuration: loaded once at
  init, replaced atomically on an explicit reload, never partially visible
  mid-reload. Readers always see either the old complete list or the new
  complete list.

FILE FORMAT:
  One name per line, UTF-8, blank lines and lines starting with '#'
  ignored. A missing file is an empty list, not an error: the desk can run
  without typeahead.
*/
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// Names holds the display-name list behind an atomic pointer.
type Names struct {
	path string
	list atomic.Pointer[[]string]
}

// LoadNames reads the list at path. A missing file yields an empty list.
func LoadNames(path string) (*Names, error) {
	n := &Names{path: path}
	empty := []string{}
	n.list.Store(&empty)
	if err := n.Reload(); err != nil {
		return nil, err
	}
	return n, nil
}

// Reload re-reads the file and swaps the list in one atomic store.
func (n *Names) Reload() error {
	f, err := os.Open(n.path)
	if os.IsNotExist(err) {
		empty := []string{}
		n.list.Store(&empty)
		return nil
	}
	if err != nil {
		return fmt.Errorf("names: open %s: %w", n.path, err)
	}
	defer f.Close()

	names := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("names: read %s: %w", n.path, err)
	}

	n.list.Store(&names)
	return nil
}

// All returns the current list. The returned slice is shared and must not
// be mutated by callers.
func (n *Names) All() []string {
	return *n.list.Load()
}

// Count returns the current list length.
func (n *Names) Count() int {
	return len(*n.list.Load())
}
