/*
handlers.go - HTTP handlers for the reservation API

PURPOSE:
  Translates HTTP requests into engine calls and engine errors into the
  uniform response envelope. This layer is thin glue: every invariant lives
  below it.

ENDPOINTS:
  Public:
    POST /book               Claim a free slot
    POST /cancel             Cancel/complete an owned (or any, as admin) booking
    GET  /get_bookings       Live bookings for a date
    GET  /get_names          Typeahead display names
    GET  /get_current_dates  Bookable business days
    GET  /get_current_time   Server wall clock
    GET  /get_server_date    Server date
    GET  /events             SSE stream (see stream.go)
    POST /admin/verify       Exchange password for admin token

  Admin (bearer token):
    POST /extract_booking    Forced removal with audit
    GET  /admin/ledgers      Audit ledger files
    POST /admin/reload_names Atomically reload the name list

ERROR HANDLING:
  Engine errors carry their API code via booking.Code(). Client errors map
  to 4xx, ledger IO failures to 503 (retryable), everything else to 500.
  Every body carries {success, code, message}.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/techcafe/reservation-engine/booking"
	"github.com/techcafe/reservation-engine/config"

	adminauth "github.com/techcafe/reservation-engine/auth"
	"github.com/techcafe/reservation-engine/bus"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *booking.Engine
	Bus    *bus.Bus
	Names  *config.Names
	Admin  *adminauth.Admin

	// DayCount is how many business days the desk opens for booking.
	DayCount int

	// Now supplies the clock for the time endpoints. Tests pin it.
	Now func() time.Time
}

// NewHandler wires a handler over its collaborators.
func NewHandler(engine *booking.Engine, b *bus.Bus, names *config.Names, admin *adminauth.Admin) *Handler {
	return &Handler{
		Engine:   engine,
		Bus:      b,
		Names:    names,
		Admin:    admin,
		DayCount: 3,
		Now:      time.Now,
	}
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// Book claims a free slot.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_format", "request body is not valid JSON")
		return
	}

	err := h.Engine.Book(r.Context(), booking.BookInput{
		Date:     req.Date,
		Time:     req.Time,
		BookedBy: req.Username,
		DeviceID: req.DeviceID,
		Kiosk:    req.Kiosk,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Booking confirmed"})
}

// Cancel removes a live booking on behalf of its owner or an admin.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_format", "request body is not valid JSON")
		return
	}

	res, err := h.Engine.Cancel(r.Context(), booking.CancelInput{
		Date:   req.Date,
		Time:   req.Time,
		Actor:  booking.Actor{DeviceID: req.DeviceID, IsAdmin: req.IsAdmin},
		Reason: booking.Reason(req.Reason),
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CancelResponse{
		Response:     Response{Success: true, Message: "Booking cancelled"},
		CSVExtracted: true,
		CSVFilename:  res.LedgerFile,
	})
}

// Extract is the admin forced removal (router gates it behind the token).
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_format", "request body is not valid JSON")
		return
	}
	if req.SlotKey == "" {
		writeFailure(w, http.StatusBadRequest, "missing_field", "missing slot_key")
		return
	}

	res, err := h.Engine.Extract(r.Context(), req.SlotKey, booking.Reason(req.Reason))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CancelResponse{
		Response:     Response{Success: true, Message: "Booking extracted"},
		CSVExtracted: true,
		CSVFilename:  res.LedgerFile,
	})
}

// GetBookings returns time -> booking for a date. Accepts the date from
// query or form, matching the original clients.
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		r.ParseForm()
		date = r.FormValue("date")
	}

	bookings, err := h.Engine.ListDay(r.Context(), date)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if bookings == nil {
		bookings = map[string]booking.Booking{}
	}
	writeJSON(w, http.StatusOK, BookingsResponse{
		Response: Response{Success: true},
		Bookings: bookings,
	})
}

// =============================================================================
// CALENDAR AND CLOCK HANDLERS
// =============================================================================

// GetCurrentDates returns the bookable business days.
func (h *Handler) GetCurrentDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DatesResponse{
		Response: Response{Success: true},
		Dates:    h.Engine.Calendar.BusinessDays(h.DayCount),
	})
}

// GetCurrentTime returns the server wall clock for display sync.
func (h *Handler) GetCurrentTime(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	writeJSON(w, http.StatusOK, TimeResponse{
		Response: Response{Success: true},
		Time: ServerTime{
			Hours:        now.Hour(),
			Minutes:      now.Minute(),
			Seconds:      now.Second(),
			TotalMinutes: now.Hour()*60 + now.Minute(),
			ISOString:    now.Format(time.RFC3339),
		},
	})
}

// GetServerDate returns the server date.
func (h *Handler) GetServerDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"date": h.Now().Format(booking.DateFormat)})
}

// GetNames returns the typeahead display names.
func (h *Handler) GetNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NamesResponse{
		Response: Response{Success: true},
		Names:    h.Names.All(),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// VerifyAdmin exchanges the admin password for a session token.
func (h *Handler) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_format", "request body is not valid JSON")
		return
	}
	if !h.Admin.VerifyPassword(req.Password) {
		writeFailure(w, http.StatusUnauthorized, "unauthorized", "Invalid admin password")
		return
	}

	token, err := h.Admin.IssueToken()
	if err != nil {
		log.Printf("admin: issue token: %v", err)
		writeFailure(w, http.StatusInternalServerError, "internal", "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		Response: Response{Success: true, Message: "Admin access granted"},
		Token:    token,
	})
}

// ListLedgers returns the audit ledger files, newest day first.
func (h *Handler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	files, err := h.Engine.Ledger.List(r.Context())
	if err != nil {
		log.Printf("ledger: list: %v", err)
		writeFailure(w, http.StatusInternalServerError, "internal", "could not list ledger files")
		return
	}
	if files == nil {
		files = []booking.LedgerFile{}
	}
	writeJSON(w, http.StatusOK, LedgersResponse{
		Response: Response{Success: true},
		Files:    files,
	})
}

// ReloadNames atomically reloads the display-name list from disk.
func (h *Handler) ReloadNames(w http.ResponseWriter, r *http.Request) {
	if err := h.Names.Reload(); err != nil {
		log.Printf("names: reload: %v", err)
		writeFailure(w, http.StatusInternalServerError, "internal", "could not reload display names")
		return
	}
	writeJSON(w, http.StatusOK, NamesResponse{
		Response: Response{Success: true, Message: "Display names reloaded"},
		Names:    h.Names.All(),
		Count:    h.Names.Count(),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Success: false, Code: code, Message: message})
}

// writeEngineError maps a core error to status + envelope.
func writeEngineError(w http.ResponseWriter, err error) {
	code := booking.Code(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrMissingField), errors.Is(err, booking.ErrInvalidFormat):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrSlotTaken):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrLedgerAppend):
		// Durable write failed; the booking is untouched and the whole
		// operation is retryable.
		status = http.StatusServiceUnavailable
	}
	writeFailure(w, status, code, err.Error())
}
