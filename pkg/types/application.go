package types

import (
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending    ApplicationStatus = "pending"
	ApplicationStatusProcessing ApplicationStatus = "processing"
	ApplicationStatusApproved   ApplicationStatus = "approved"
	ApplicationStatusRejected   ApplicationStatus = "rejected"
	ApplicationStatusClaimed    ApplicationStatus = "claimed"
)

// allowedTransitions lists every forward move. Rejected and claimed are
// terminal and have no entry.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:    {ApplicationStatusProcessing, ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusProcessing: {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved:   {ApplicationStatusClaimed},
}

// ParseApplicationStatus accepts any casing and surrounding whitespace.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case ApplicationStatusPending,
		ApplicationStatusProcessing,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
		ApplicationStatusClaimed:
		return status, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransition reports whether moving s -> to keeps the lifecycle
// monotonic. Re-applying the current status is always allowed.
func (s ApplicationStatus) CanTransition(to ApplicationStatus) bool {
	if s == to {
		return true
	}

	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

// SetsProcessedDate reports whether entering the status stamps processed_date.
func (s ApplicationStatus) SetsProcessedDate() bool {
	switch s {
	case ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusClaimed:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type ServiceType string

const (
	ServiceTypeBarangay ServiceType = "barangay"
	ServiceTypeHealth   ServiceType = "health"
)

func ParseServiceType(s string) (ServiceType, error) {
	switch t := ServiceType(strings.ToLower(strings.TrimSpace(s))); t {
	case ServiceTypeBarangay, ServiceTypeHealth:
		return t, nil
	}
	return "", fmt.Errorf("unknown service type %q", s)
}

type Application struct {
	ID               int64             `db:"id" json:"id"`
	ApplicantID      int64             `db:"applicant_id" json:"applicantId"`
	ServiceType      ServiceType       `db:"service_type" json:"serviceType"`
	ServiceID        int64             `db:"service_id" json:"serviceId"`
	Status           ApplicationStatus `db:"status" json:"status"`
	Remarks          string            `db:"remarks" json:"remarks"`
	Purpose          string            `db:"purpose" json:"purpose"`
	PickupReady      bool              `db:"pickup_ready" json:"pickupReady"`
	RequirementFiles []string          `db:"requirement_files" json:"requirementFiles"`
	Version          int64             `db:"version" json:"version"`
	ApplicationDate  *time.Time        `db:"application_date" json:"applicationDate,omitempty"`
	ProcessedDate    *time.Time        `db:"processed_date" json:"processedDate,omitempty"`
	CreatedAt        time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updatedAt"`
}

// ReferenceYear is the year printed in the reference number: the application
// date when recorded, then the creation time, then the supplied fallback.
func (a *Application) ReferenceYear(fallback time.Time) int {
	if a.ApplicationDate != nil && !a.ApplicationDate.IsZero() {
		return a.ApplicationDate.Year()
	}
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt.Year()
	}
	return fallback.Year()
}

// StatusUpdate is the write applied by the application store for a single
// transition. ExpectedVersion of zero means last write wins.
type StatusUpdate struct {
	ApplicationID   int64
	Status          ApplicationStatus
	Remarks         string
	PickupReady     bool
	ExpectedVersion int64
	UpdatedAt       time.Time
	ProcessedDate   *time.Time
}

type ApplicationEventKind string

const (
	ApplicationEventStatusChanged      ApplicationEventKind = "status_changed"
	ApplicationEventNotificationSent   ApplicationEventKind = "notification_sent"
	ApplicationEventNotificationFailed ApplicationEventKind = "notification_failed"
)

// ApplicationEvent is one row of the append-only audit trail.
type ApplicationEvent struct {
	ID            string               `db:"id" json:"id"`
	ApplicationID int64                `db:"application_id" json:"applicationId"`
	Kind          ApplicationEventKind `db:"kind" json:"kind"`
	Status        ApplicationStatus    `db:"status" json:"status"`
	Detail        string               `db:"detail" json:"detail"`
	CreatedAt     time.Time            `db:"created_at" json:"createdAt"`
}
