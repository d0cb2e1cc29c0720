// Package domain holds the transient entities exchanged between the Telegram
// side and the web-app side of the relay. Nothing here is persisted; every
// value lives for a single request cycle.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload marks an embedded web-app payload that is not a valid
// JSON object. The lead handler aborts before any send when it sees this.
var ErrMalformedPayload = errors.New("malformed web-app payload")

// Lead is the contact form submission carried inside a web_app_data update.
// All fields are free-form strings; no schema is enforced beyond valid JSON.
type Lead struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

// ParseLead decodes the raw embedded payload into a Lead.
func ParseLead(raw string) (Lead, error) {
	if strings.TrimSpace(raw) == "" {
		return Lead{}, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	var lead Lead
	if err := json.Unmarshal([]byte(raw), &lead); err != nil {
		return Lead{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return lead, nil
}
