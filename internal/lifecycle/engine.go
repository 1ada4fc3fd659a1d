// Package lifecycle moves applications through
// pending → processing → approved|rejected → claimed and fires the side
// effects tied to each step.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"barangay/internal/numbering"
	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	// ReadyForPickupLabel is the display state of an approved application
	// waiting to be claimed.
	ReadyForPickupLabel = "Ready for Pick-up"

	defaultNotifyTimeout = 10 * time.Second
)

var readyForPickupRe = regexp.MustCompile(`(?i)ready for pick-up`)

type ApplicationStore interface {
	Application(ctx context.Context, applicationID int64) (*types.Application, error)
	UpdateStatus(ctx context.Context, update *types.StatusUpdate) (*types.Application, error)
}

type ResidentDirectory interface {
	User(ctx context.Context, userID int64) (*types.User, error)
}

type ServiceCatalog interface {
	Service(ctx context.Context, serviceType types.ServiceType, serviceID int64) (*types.Service, error)
}

type NotificationSender interface {
	SendReadyForPickup(ctx context.Context, notice types.PickupNotice) error
}

type EventRecorder interface {
	RecordEvent(ctx context.Context, event *types.ApplicationEvent) error
}

type CertificateRenderer interface {
	Render(app *types.Application, user *types.User, service *types.Service) (*types.CertificateDocument, error)
}

type Options struct {
	// LegacyRemarksSignal treats "ready for pick-up" inside the remarks of an
	// approved application as the pick-up flag.
	LegacyRemarksSignal bool

	// EnforceOrdering rejects transitions that move backwards.
	EnforceOrdering bool

	// DedupePickupNotice skips the email when the application was already
	// flagged ready for pick-up before the update.
	DedupePickupNotice bool

	NotifyTimeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

type Dependencies struct {
	Applications ApplicationStore
	Residents    ResidentDirectory
	Services     ServiceCatalog
	Notifier     NotificationSender
	Events       EventRecorder
	Renderer     CertificateRenderer
	Logger       logrus.FieldLogger
}

type Engine struct {
	applications ApplicationStore
	residents    ResidentDirectory
	services     ServiceCatalog
	notifier     NotificationSender
	events       EventRecorder
	renderer     CertificateRenderer
	logger       logrus.FieldLogger

	opts Options
	now  func() time.Time
}

func New(deps Dependencies, opts Options) *Engine {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{
		applications: deps.Applications,
		residents:    deps.Residents,
		services:     deps.Services,
		notifier:     deps.Notifier,
		events:       deps.Events,
		renderer:     deps.Renderer,
		logger:       logger,
		opts:         opts,
		now:          now,
	}
}

// StatusChange is a staff request to set an application's status.
type StatusChange struct {
	ApplicationID int64
	Status        string
	Remarks       string

	// PickupReady flags an approved application as ready for pick-up without
	// relying on the remarks text.
	PickupReady bool

	// ExpectedVersion, when non-zero, rejects the write if another request
	// updated the application first.
	ExpectedVersion int64
}

// Transition is the two-phase result of a status change: the persisted
// application and the best-effort notification outcome.
type Transition struct {
	Application  *types.Application
	Previous     types.ApplicationStatus
	Notification types.NotificationOutcome
}

// UpdateStatus persists the change and, when the application becomes ready
// for pick-up, emails the applicant. A failed email never fails the update.
func (e *Engine) UpdateStatus(ctx context.Context, change StatusChange) (*Transition, error) {
	status, err := types.ParseApplicationStatus(change.Status)
	if err != nil {
		return nil, err
	}

	current, err := e.applications.Application(ctx, change.ApplicationID)
	if err != nil {
		return nil, err
	}

	if e.opts.EnforceOrdering && !current.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s to %s", types.ErrInvalidTransition, current.Status, status)
	}

	pickupReady := e.pickupReady(status, change.Remarks, change.PickupReady)

	updated, err := e.persist(ctx, current, &types.StatusUpdate{
		ApplicationID:   change.ApplicationID,
		Status:          status,
		Remarks:         change.Remarks,
		PickupReady:     pickupReady,
		ExpectedVersion: change.ExpectedVersion,
	})
	if err != nil {
		return nil, err
	}

	transition := &Transition{
		Application:  updated,
		Previous:     current.Status,
		Notification: types.NotificationOutcome{Status: types.NotificationStatusNotRequired},
	}

	if !pickupReady {
		return transition, nil
	}

	if e.opts.DedupePickupNotice && e.DisplayState(current) == ReadyForPickupLabel {
		transition.Notification.Status = types.NotificationStatusSkipped
		return transition, nil
	}

	transition.Notification = e.notifyReadyForPickup(ctx, updated)
	return transition, nil
}

// StartProcessing moves the application to processing regardless of its
// current status.
func (e *Engine) StartProcessing(ctx context.Context, applicationID int64, remarks string) (*types.Application, error) {
	current, err := e.applications.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	return e.persist(ctx, current, &types.StatusUpdate{
		ApplicationID: applicationID,
		Status:        types.ApplicationStatusProcessing,
		Remarks:       remarks,
	})
}

// MarkGenerated records that staff produced a certificate. The processing
// status doubles as "certificate generated", so only pending applications
// move; anything further along is returned unchanged.
func (e *Engine) MarkGenerated(ctx context.Context, applicationID int64) (*types.Application, error) {
	current, err := e.applications.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if current.Status != types.ApplicationStatusPending {
		return current, nil
	}

	return e.persist(ctx, current, &types.StatusUpdate{
		ApplicationID: applicationID,
		Status:        types.ApplicationStatusProcessing,
		Remarks:       current.Remarks,
	})
}

func (e *Engine) persist(ctx context.Context, current *types.Application, update *types.StatusUpdate) (*types.Application, error) {
	now := e.now()
	update.UpdatedAt = now
	if update.Status.SetsProcessedDate() {
		update.ProcessedDate = &now
	}

	updated, err := e.applications.UpdateStatus(ctx, update)
	if err != nil {
		if !errors.Is(err, types.ErrApplicationNotFound) && !errors.Is(err, types.ErrStaleApplication) && !errors.Is(err, types.ErrPersistence) {
			err = fmt.Errorf("%w: %w", types.ErrPersistence, err)
		}
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"application_id": updated.ID,
		"from":           current.Status,
		"to":             updated.Status,
		"pickup_ready":   updated.PickupReady,
	}).Info("application status updated")

	e.recordEvent(ctx, updated.ID, types.ApplicationEventStatusChanged, updated.Status,
		fmt.Sprintf("%s -> %s: %s", current.Status, updated.Status, update.Remarks))

	return updated, nil
}

func (e *Engine) pickupReady(status types.ApplicationStatus, remarks string, explicit bool) bool {
	if status != types.ApplicationStatusApproved {
		return false
	}
	return explicit || (e.opts.LegacyRemarksSignal && readyForPickupRe.MatchString(remarks))
}

func (e *Engine) notifyReadyForPickup(ctx context.Context, app *types.Application) types.NotificationOutcome {
	now := e.now()
	outcome := types.NotificationOutcome{
		ReferenceNumber: numbering.ReferenceNumber(app.ID, app.ReferenceYear(now)),
		AttemptedAt:     now,
	}

	log := e.logger.WithFields(logrus.Fields{
		"application_id":   app.ID,
		"reference_number": outcome.ReferenceNumber,
	})

	err := e.sendPickupNotice(ctx, app, outcome.ReferenceNumber)
	if err != nil {
		outcome.Status = types.NotificationStatusFailed
		outcome.Err = err
		log.WithError(err).Error("failed to send ready for pick-up notification")
		e.recordEvent(ctx, app.ID, types.ApplicationEventNotificationFailed, app.Status, err.Error())
		return outcome
	}

	outcome.Status = types.NotificationStatusSent
	log.Info("ready for pick-up notification sent")
	e.recordEvent(ctx, app.ID, types.ApplicationEventNotificationSent, app.Status, outcome.ReferenceNumber)

	return outcome
}

func (e *Engine) sendPickupNotice(ctx context.Context, app *types.Application, referenceNumber string) (err error) {
	if e.notifier == nil {
		return errors.New("no notification sender configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification sender panicked: %v", r)
		}
	}()

	user, err := e.residents.User(ctx, app.ApplicantID)
	if err != nil {
		return fmt.Errorf("load applicant %d: %w", app.ApplicantID, err)
	}

	serviceName := ""
	service, err := e.services.Service(ctx, app.ServiceType, app.ServiceID)
	if err != nil {
		if !errors.Is(err, types.ErrServiceNotFound) {
			return fmt.Errorf("load service %s/%d: %w", app.ServiceType, app.ServiceID, err)
		}
	} else {
		serviceName = service.Name
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.opts.NotifyTimeout)
	defer cancel()

	return e.notifier.SendReadyForPickup(notifyCtx, types.PickupNotice{
		ApplicationID:   app.ID,
		Email:           email,
		FullName:        user.FullName(),
		ReferenceNumber: referenceNumber,
		ServiceName:     serviceName,
	})
}

func (e *Engine) recordEvent(ctx context.Context, applicationID int64, kind types.ApplicationEventKind, status types.ApplicationStatus, detail string) {
	if e.events == nil {
		return
	}

	err := e.events.RecordEvent(ctx, &types.ApplicationEvent{
		ApplicationID: applicationID,
		Kind:          kind,
		Status:        status,
		Detail:        strings.TrimSpace(detail),
		CreatedAt:     e.now(),
	})
	if err != nil {
		e.logger.WithError(err).WithField("application_id", applicationID).Warn("failed to record application event")
	}
}

// EffectiveState is the display label for a status and its remarks.
func EffectiveState(status, remarks string) string {
	if strings.EqualFold(strings.TrimSpace(status), string(types.ApplicationStatusApproved)) && readyForPickupRe.MatchString(remarks) {
		return ReadyForPickupLabel
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + strings.ToLower(status[1:])
}

// DisplayState prefers the stored pick-up flag. With legacyRemarks set it
// also honours the remarks text, for rows written before the flag existed.
func DisplayState(app *types.Application, legacyRemarks bool) string {
	if app.Status == types.ApplicationStatusApproved && app.PickupReady {
		return ReadyForPickupLabel
	}
	if !legacyRemarks {
		return EffectiveState(string(app.Status), "")
	}
	return EffectiveState(string(app.Status), app.Remarks)
}

// DisplayState labels app the same way UpdateStatus decides pick-up readiness.
func (e *Engine) DisplayState(app *types.Application) string {
	return DisplayState(app, e.opts.LegacyRemarksSignal)
}
