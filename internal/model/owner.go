package model

import "strings"

// MailingAddress is where the owner receives mail. It is structurally similar
// to location data but semantically disjoint: nothing in it may ever be used
// to describe where the parcel physically sits.
type MailingAddress struct {
	Line1       string `json:"line1,omitempty"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	RawAddress  string `json:"raw_address,omitempty"`
	IsAvailable bool   `json:"is_available"`
	DataTrust   string `json:"data_trust,omitempty"`
}

// Display returns a single-line rendering of the mailing address, or an empty
// string when unavailable.
func (m MailingAddress) Display() string {
	if !m.IsAvailable {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{m.Line1, m.Line2, m.City} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(m.State) + " " + strings.TrimSpace(m.PostalCode))
	if tail != "" {
		parts = append(parts, tail)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(m.RawAddress)
	}
	return strings.Join(parts, ", ")
}

// Owner is the person or entity on title for a parcel.
type Owner struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Phone   string         `json:"phone,omitempty"`
	Mailing MailingAddress `json:"mailing_address"`
}
