/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the wire contract. Field names follow the original desk clients
  (username, device_id, is_admin), so existing kiosks keep working.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response / Response: response wrappers

VALIDATION:
  Shape validation (presence, formats, token pattern) happens in the
  engine, not here. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
  - booking/errors.go: the codes carried in Response.Code
*/
package api

import (
	"github.com/techcafe/reservation-engine/booking"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// BookRequest is the body of POST /book.
type BookRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Username string `json:"username"`
	DeviceID string `json:"device_id"`
	Kiosk    bool   `json:"kiosk,omitempty"`
}

// CancelRequest is the body of POST /cancel.
type CancelRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	DeviceID string `json:"device_id"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
	Reason   string `json:"reason,omitempty"` // "cancelled" (default) or "completed"
}

// ExtractRequest is the body of POST /extract_booking.
type ExtractRequest struct {
	SlotKey string `json:"slot_key"`
	Reason  string `json:"reason,omitempty"` // defaults to "extracted"
}

// VerifyRequest is the body of POST /admin/verify.
type VerifyRequest struct {
	Password string `json:"password"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Response is the uniform envelope: a success flag always, and on failure
// a stable machine code plus human message.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// CancelResponse reports a removal together with its audit outcome. The
// audit row is written before the store mutation, so csv_extracted is
// always true on success; it is explicit in the payload so partial success
// could never masquerade as plain success.
type CancelResponse struct {
	Response
	CSVExtracted bool   `json:"csv_extracted"`
	CSVFilename  string `json:"csv_filename,omitempty"`
}

// BookingsResponse is the body of GET /get_bookings.
type BookingsResponse struct {
	Response
	Bookings map[string]booking.Booking `json:"bookings"`
}

// NamesResponse is the body of GET /get_names.
type NamesResponse struct {
	Response
	Names []string `json:"names"`
	Count int      `json:"count,omitempty"`
}

// DatesResponse is the body of GET /get_current_dates.
type DatesResponse struct {
	Response
	Dates []booking.Day `json:"dates"`
}

// TimeResponse is the body of GET /get_current_time.
type TimeResponse struct {
	Response
	Time ServerTime `json:"time"`
}

// ServerTime is the wall-clock payload used for client display sync.
type ServerTime struct {
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	TotalMinutes int    `json:"total_minutes"`
	ISOString    string `json:"iso_string"`
}

// TokenResponse is the body of POST /admin/verify.
type TokenResponse struct {
	Response
	Token string `json:"token,omitempty"`
}

// LedgersResponse is the body of GET /admin/ledgers.
type LedgersResponse struct {
	Response
	Files []booking.LedgerFile `json:"files"`
}
