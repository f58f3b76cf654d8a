package model

import "time"

// Lead ties an owner to a parcel in the acquisition pipeline. The call-prep
// engine reads leads but never advances their stage.
type Lead struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ParcelID  string    `json:"parcel_id"`
	Parish    string    `json:"parish,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
