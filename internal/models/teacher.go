package models

import "time"

// Teacher represents an instructor record. GroupExempt marks teachers whose
// CLASS-type bookings may coexist with other bookings in the same slot
// (large group sessions); the legacy system hardcoded these by name.
type Teacher struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Subject     *string   `db:"subject" json:"subject,omitempty"`
	GroupExempt bool      `db:"group_exempt" json:"group_exempt"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
