// Package model defines the data shapes shared across the resolution pipeline.
package model

import (
	"fmt"
	"time"
)

// EmailStatus is the canonical verification verdict vocabulary. Every
// provider-specific status is mapped into one of these before it leaves the
// verification engine.
type EmailStatus string

const (
	EmailValid    EmailStatus = "valid"
	EmailInvalid  EmailStatus = "invalid"
	EmailRisky    EmailStatus = "risky"
	EmailUnknown  EmailStatus = "unknown"
	EmailNotFound EmailStatus = "not_found"
)

// Decisive reports whether the status settles verification. Unknown results
// let the engine fall through to the next provider.
func (s EmailStatus) Decisive() bool {
	return s == EmailValid || s == EmailInvalid || s == EmailRisky
}

// VerificationResult is the outcome of verifying a single candidate email.
type VerificationResult struct {
	Email  string      `json:"email"`
	Status EmailStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// ScrapedRecord is the normalized shape every source engine emits. Engines
// map their source-specific payloads into this before returning; nothing
// downstream ever sees a per-source shape.
type ScrapedRecord struct {
	Name          string `json:"name"`
	Headline      string `json:"headline"`
	IdentifierURL string `json:"linkedinUrl"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Website       string `json:"website,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Education     string `json:"education,omitempty"`
	WorkHistory   string `json:"workHistory,omitempty"`
	Source        string `json:"source,omitempty"`
}

// EnrichedProfile is the response unit: a scraped record plus its contact
// verification outcome.
type EnrichedProfile struct {
	ScrapedRecord

	Email               string      `json:"email,omitempty"`
	EmailStatus         EmailStatus `json:"emailStatus,omitempty"`
	VerificationDetails string      `json:"verificationDetails,omitempty"`
	Status              string      `json:"status,omitempty"`
	RawData             *RawData    `json:"rawData,omitempty"`
}

// RawData is the opaque structured payload persisted alongside a profile.
// It carries the source-specific fields the relational columns don't model.
type RawData struct {
	Email       string `json:"email,omitempty"`
	Status      string `json:"status,omitempty"`
	Details     string `json:"details,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Education   string `json:"education,omitempty"`
	WorkHistory string `json:"workHistory,omitempty"`
	Source      string `json:"source,omitempty"`
	RowStatus   string `json:"row_status,omitempty"`
}

// Profile row statuses.
const (
	ProfileActive  = "active"
	ProfileMissing = "missing"
)

// Profile is a persisted contact profile row.
type Profile struct {
	ID              string    `json:"id"`
	UniqueKey       string    `json:"unique_key"`
	Name            string    `json:"name"`
	NormalizedTitle string    `json:"normalized_title"`
	Company         string    `json:"company"`
	Website         string    `json:"website,omitempty"`
	LastVerifiedAt  time.Time `json:"last_verified_at"`
	Status          string    `json:"status"`
	RawData         *RawData  `json:"raw_data,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Fresh reports whether the row's last verification is within the window.
func (p Profile) Fresh(now time.Time, window time.Duration) bool {
	return now.Sub(p.LastVerifiedAt) < window
}

// SyntheticKey builds the unique key for records lacking a professional
// network URL (small-business listings keyed by name and address).
func SyntheticKey(name, address string) string {
	return fmt.Sprintf("smb:%s:%s", name, address)
}
