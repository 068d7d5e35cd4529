package models

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// SettlementEvent is the audit record emitted when a forecast call settles.
type SettlementEvent struct {
	SessionID     string    `json:"session_id"`
	Seq           uint64    `json:"seq"`
	Phase         Phase     `json:"phase"`
	Country       string    `json:"country"`
	HorizonMonths int       `json:"prediction_months"`
	Points        int       `json:"points,omitempty"`
	Status        string    `json:"status,omitempty"`
	Error         string    `json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	At            time.Time `json:"at"`
}

// SubmitForm is the raw form input as typed by the user.
type SubmitForm struct {
	Country string       `form:"country" query:"country" json:"country"`
	Months  HorizonInput `form:"months" query:"months" json:"months" default:"1"`
}

// HorizonInput keeps the months field as the user typed it so that
// validation, not binding, decides what is a valid number. It accepts both a
// JSON number and a JSON string.
type HorizonInput string

func (h *HorizonInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*h = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*h = HorizonInput(s)
	default:
		// Numbers keep their literal text, so 2.5 still fails validation.
		*h = HorizonInput(b)
	}
	return nil
}
