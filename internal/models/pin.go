package models

import "time"

// PinCredential is the single locally persisted app-lock secret.
type PinCredential struct {
	Hash           string     `json:"hash"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
}

type PinStatus struct {
	IsPinSet    bool       `json:"is_pin_set"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
}
