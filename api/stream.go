/*
stream.go - Server-sent events subscription endpoint

PURPOSE:
  GET /events?date=YYYY-MM-DD attaches the client to the notification bus
  topic for that date and streams booking-change events plus the periodic
  clock tick until the client disconnects. The bus owns fan-out; this
  handler only drains one subscriber's channel onto the wire.

DEPARTURE:
  Disconnect is detected via the request context; the deferred Unsubscribe
  removes the handle from the topic, and publishes racing with departure
  are dropped by the bus's non-blocking send.
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/techcafe/reservation-engine/booking"
)

// Events streams bus messages for one date as server-sent events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeFailure(w, http.StatusBadRequest, "missing_field", "missing required field: date")
		return
	}
	if err := (booking.SlotID{Date: date, Time: "09:00"}).Validate(); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid_format", "date must be YYYY-MM-DD")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeFailure(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	sub := h.Bus.Subscribe(date)
	defer h.Bus.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-sub.C:
			if !open {
				return
			}
			event := "booking"
			if msg.Tick != nil {
				event = "clock"
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
			flusher.Flush()
		}
	}
}
