package types

import "time"

// PickupNotice carries everything the ready-for-pickup email needs.
type PickupNotice struct {
	ApplicationID   int64
	Email           string
	FullName        string
	ReferenceNumber string
	ServiceName     string
}

type NotificationStatus string

const (
	NotificationStatusNotRequired NotificationStatus = "not_required"
	NotificationStatusSkipped     NotificationStatus = "skipped"
	NotificationStatusSent        NotificationStatus = "sent"
	NotificationStatusFailed      NotificationStatus = "failed"
)

// NotificationOutcome is the best-effort second phase of a status update.
// Err is informational only and never fails the update.
type NotificationOutcome struct {
	Status          NotificationStatus
	ReferenceNumber string
	Err             error
	AttemptedAt     time.Time
}
