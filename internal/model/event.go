package model

import "time"

// Outcome classifies how a generation request ended.
type Outcome string

const (
	OutcomeGenerated      Outcome = "generated"
	OutcomeRejected       Outcome = "rejected"
	OutcomeEntropyFailure Outcome = "entropy_failure"
	OutcomeFailed         Outcome = "failed"
)

// GenerationEvent is the audit record of a single generation request.
// It never carries generated passwords.
type GenerationEvent struct {
	ID                string
	Length            int
	Count             int
	Classes           string // comma separated class names, e.g. "upper-case,number"
	Mode              string
	ExcludeAmbiguous  bool
	AlphabetSize      int
	Outcome           Outcome
	Reason            string
	ClientFingerprint string
	CreatedAt         time.Time
}

// GenerationEventResponse represents an audit event in API responses.
type GenerationEventResponse struct {
	ID                string    `json:"id"`
	Length            int       `json:"length"`
	Count             int       `json:"count"`
	Classes           string    `json:"classes"`
	Mode              string    `json:"mode"`
	ExcludeAmbiguous  bool      `json:"exclude_ambiguous"`
	AlphabetSize      int       `json:"alphabet_size"`
	Outcome           Outcome   `json:"outcome"`
	Reason            string    `json:"reason,omitempty"`
	ClientFingerprint string    `json:"client_fingerprint"`
	CreatedAt         time.Time `json:"created_at"`
}

// EntropyFailureResponse reports how many requests failed on the random source.
type EntropyFailureResponse struct {
	Since time.Time `json:"since"`
	Count int       `json:"count"`
}
