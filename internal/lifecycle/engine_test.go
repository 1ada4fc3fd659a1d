package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"barangay/internal/certificate"
	"barangay/internal/utils"
	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryApplications struct {
	mu     sync.Mutex
	rows   map[int64]*types.Application
	writes int
	err    error
}

func (m *memoryApplications) Application(_ context.Context, id int64) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	app, ok := m.rows[id]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (m *memoryApplications) UpdateStatus(_ context.Context, u *types.StatusUpdate) (*types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	app, ok := m.rows[u.ApplicationID]
	if !ok {
		return nil, types.ErrApplicationNotFound
	}
	if u.ExpectedVersion > 0 && app.Version != u.ExpectedVersion {
		return nil, types.ErrStaleApplication
	}

	app.Status = u.Status
	app.Remarks = u.Remarks
	app.PickupReady = u.PickupReady
	app.UpdatedAt = u.UpdatedAt
	if u.ProcessedDate != nil {
		app.ProcessedDate = u.ProcessedDate
	}
	app.Version++
	m.writes++

	cp := *app
	return &cp, nil
}

type memoryResidents map[int64]*types.User

func (m memoryResidents) User(_ context.Context, id int64) (*types.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, types.ErrUserNotFound
}

type memoryServices map[int64]*types.Service

func (m memoryServices) Service(_ context.Context, _ types.ServiceType, id int64) (*types.Service, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, types.ErrServiceNotFound
}

type recordingSender struct {
	mu      sync.Mutex
	notices []types.PickupNotice
	send    func(ctx context.Context) error
}

func (r *recordingSender) SendReadyForPickup(ctx context.Context, notice types.PickupNotice) error {
	r.mu.Lock()
	r.notices = append(r.notices, notice)
	r.mu.Unlock()

	if r.send != nil {
		return r.send(ctx)
	}
	return nil
}

type memoryEvents struct {
	events []*types.ApplicationEvent
}

func (m *memoryEvents) RecordEvent(_ context.Context, e *types.ApplicationEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memoryEvents) kinds() []types.ApplicationEventKind {
	out := make([]types.ApplicationEventKind, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Kind)
	}
	return out
}

type fixture struct {
	engine       *Engine
	applications *memoryApplications
	sender       *recordingSender
	events       *memoryEvents
	hook         *logtest.Hook
}

var testNow = time.Date(2024, time.June, 14, 9, 30, 0, 0, time.UTC)

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	applications := &memoryApplications{rows: map[int64]*types.Application{
		15: {
			ID:          15,
			ApplicantID: 3,
			ServiceType: types.ServiceTypeBarangay,
			ServiceID:   1,
			Status:      types.ApplicationStatusProcessing,
			Purpose:     "employment",
			Version:     1,
			CreatedAt:   time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC),
		},
		16: {
			ID:          16,
			ApplicantID: 99,
			ServiceType: types.ServiceTypeBarangay,
			ServiceID:   42,
			Status:      types.ApplicationStatusPending,
			Version:     1,
			CreatedAt:   time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC),
		},
	}}

	residents := memoryResidents{
		3: {
			ID:         3,
			GivenName:  "Maria",
			MiddleName: utils.StringPtr("Santos"),
			FamilyName: "Reyes",
			Email:      utils.StringPtr("maria.reyes@example.com"),
			Birthday:   utils.TimePtr(time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)),
		},
	}

	services := memoryServices{
		1: {ID: 1, Type: types.ServiceTypeBarangay, Name: "Barangay Clearance"},
	}

	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}

	sender := &recordingSender{}
	events := &memoryEvents{}

	engine := New(Dependencies{
		Applications: applications,
		Residents:    residents,
		Services:     services,
		Notifier:     sender,
		Events:       events,
		Renderer: certificate.NewRenderer(certificate.Options{
			Office: types.Office{BarangayName: "Barangay San Isidro", CaptainName: "HON. JUAN DELA CRUZ"},
			Now:    opts.Now,
		}),
		Logger: logger,
	}, opts)

	return &fixture{
		engine:       engine,
		applications: applications,
		sender:       sender,
		events:       events,
		hook:         hook,
	}
}

func TestEffectiveState(t *testing.T) {
	tests := []struct {
		status   string
		remarks  string
		expected string
	}{
		{status: "approved", remarks: "Ready for Pick-up at the hall", expected: ReadyForPickupLabel},
		{status: "APPROVED", remarks: "ready for pick-up", expected: ReadyForPickupLabel},
		{status: "approved", remarks: "READY FOR PICK-UP tomorrow", expected: ReadyForPickupLabel},
		{status: "approved", remarks: "approved, wait for text", expected: "Approved"},
		{status: "approved", remarks: "ready for pickup", expected: "Approved"},
		{status: "processing", remarks: "ready for pick-up", expected: "Processing"},
		{status: "rejected", remarks: "", expected: "Rejected"},
		{status: "claimed", remarks: "ready for pick-up", expected: "Claimed"},
		{status: "pending", remarks: "", expected: "Pending"},
	}

	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.remarks, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveState(tt.status, tt.remarks))
		})
	}
}

func TestDisplayState(t *testing.T) {
	tests := []struct {
		name          string
		app           *types.Application
		legacyRemarks bool
		expected      string
	}{
		{name: "flag", app: &types.Application{Status: types.ApplicationStatusApproved, PickupReady: true}, expected: ReadyForPickupLabel},
		{name: "legacy remarks", app: &types.Application{Status: types.ApplicationStatusApproved, Remarks: "Ready for pick-up"}, legacyRemarks: true, expected: ReadyForPickupLabel},
		{name: "remarks ignored without legacy signal", app: &types.Application{Status: types.ApplicationStatusApproved, Remarks: "Ready for pick-up"}, expected: "Approved"},
		{name: "approved", app: &types.Application{Status: types.ApplicationStatusApproved}, legacyRemarks: true, expected: "Approved"},
		{name: "claimed keeps its label", app: &types.Application{Status: types.ApplicationStatusClaimed, PickupReady: true}, legacyRemarks: true, expected: "Claimed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayState(tt.app, tt.legacyRemarks))
		})
	}
}

func TestEngine_DisplayState_FollowsLegacySignal(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: false})

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "APPROVED",
		Remarks:       "not ready for pick-up yet",
	})
	require.NoError(t, err)
	assert.False(t, tr.Application.PickupReady)
	assert.Empty(t, f.sender.notices)
	assert.Equal(t, "Approved", f.engine.DisplayState(tr.Application))

	legacy := newFixture(t, Options{LegacyRemarksSignal: true})
	assert.Equal(t, ReadyForPickupLabel, legacy.engine.DisplayState(tr.Application))
}

func TestEngine_UpdateStatus_ReadyForPickupSendsNotice(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		Remarks:       "Ready for pick-up",
	})
	require.NoError(t, err)

	assert.Equal(t, types.ApplicationStatusApproved, tr.Application.Status)
	assert.Equal(t, types.ApplicationStatusProcessing, tr.Previous)
	assert.True(t, tr.Application.PickupReady)
	assert.Equal(t, int64(2), tr.Application.Version)
	require.NotNil(t, tr.Application.ProcessedDate)
	assert.Equal(t, testNow, *tr.Application.ProcessedDate)
	assert.Equal(t, testNow, tr.Application.UpdatedAt)

	assert.Equal(t, types.NotificationStatusSent, tr.Notification.Status)
	assert.Equal(t, "BRG-000015 (2024)", tr.Notification.ReferenceNumber)
	assert.NoError(t, tr.Notification.Err)

	require.Len(t, f.sender.notices, 1)
	notice := f.sender.notices[0]
	assert.Equal(t, "maria.reyes@example.com", notice.Email)
	assert.Equal(t, "Maria Santos Reyes", notice.FullName)
	assert.Equal(t, "Barangay Clearance", notice.ServiceName)
	assert.Equal(t, "BRG-000015 (2024)", notice.ReferenceNumber)

	assert.Equal(t, []types.ApplicationEventKind{
		types.ApplicationEventStatusChanged,
		types.ApplicationEventNotificationSent,
	}, f.events.kinds())
}

func TestEngine_UpdateStatus_PickupFlag(t *testing.T) {
	f := newFixture(t, Options{})

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		PickupReady:   true,
	})
	require.NoError(t, err)
	assert.True(t, tr.Application.PickupReady)
	assert.Equal(t, types.NotificationStatusSent, tr.Notification.Status)
}

func TestEngine_UpdateStatus_LegacySignalDisabled(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: false})

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		Remarks:       "Ready for pick-up",
	})
	require.NoError(t, err)
	assert.False(t, tr.Application.PickupReady)
	assert.Equal(t, types.NotificationStatusNotRequired, tr.Notification.Status)
	assert.Empty(t, f.sender.notices)
}

func TestEngine_UpdateStatus_NoNoticeWithoutPickup(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		remarks string
	}{
		{name: "approved without pick-up remark", status: "approved", remarks: "Approved"},
		{name: "processing with pick-up remark", status: "processing", remarks: "ready for pick-up"},
		{name: "rejected", status: "rejected", remarks: "Incomplete requirements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{LegacyRemarksSignal: true})

			tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
				ApplicationID: 15,
				Status:        tt.status,
				Remarks:       tt.remarks,
			})
			require.NoError(t, err)
			assert.Equal(t, types.NotificationStatusNotRequired, tr.Notification.Status)
			assert.False(t, tr.Application.PickupReady)
			assert.Empty(t, f.sender.notices)
		})
	}
}

func TestEngine_UpdateStatus_NotificationFailureDoesNotFailUpdate(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})
	f.sender.send = func(context.Context) error { return errors.New("smtp unavailable") }

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		Remarks:       "Ready for pick-up",
	})
	require.NoError(t, err)

	assert.Equal(t, types.ApplicationStatusApproved, tr.Application.Status)
	assert.Equal(t, types.NotificationStatusFailed, tr.Notification.Status)
	assert.EqualError(t, tr.Notification.Err, "smtp unavailable")

	stored, err := f.applications.Application(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusApproved, stored.Status)

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, int64(15), entry.Data["application_id"])

	assert.Contains(t, f.events.kinds(), types.ApplicationEventNotificationFailed)
}

func TestEngine_UpdateStatus_NotificationTimeout(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true, NotifyTimeout: 20 * time.Millisecond})
	f.sender.send = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	start := time.Now()
	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		Remarks:       "Ready for pick-up",
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, types.NotificationStatusFailed, tr.Notification.Status)
	assert.ErrorIs(t, tr.Notification.Err, context.DeadlineExceeded)
}

func TestEngine_UpdateStatus_NotificationPanicIsContained(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})
	f.sender.send = func(context.Context) error { panic("boom") }

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 15,
		Status:        "approved",
		Remarks:       "Ready for pick-up",
	})
	require.NoError(t, err)
	assert.Equal(t, types.NotificationStatusFailed, tr.Notification.Status)
}

func TestEngine_UpdateStatus_MissingApplicantStillUpdates(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})
	f.applications.rows[16].Status = types.ApplicationStatusProcessing

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID: 16,
		Status:        "approved",
		Remarks:       "ready for pick-up",
	})
	require.NoError(t, err)
	assert.Equal(t, types.NotificationStatusFailed, tr.Notification.Status)
	assert.ErrorIs(t, tr.Notification.Err, types.ErrUserNotFound)
	assert.Equal(t, "BRG-000016 (2023)", tr.Notification.ReferenceNumber)
	assert.Empty(t, f.sender.notices)
}

func TestEngine_UpdateStatus_RepeatedApprovalNotifiesEachTime(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})

	for range 2 {
		tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
			ApplicationID: 15,
			Status:        "approved",
			Remarks:       "Ready for pick-up",
		})
		require.NoError(t, err)
		assert.Equal(t, types.NotificationStatusSent, tr.Notification.Status)
	}

	assert.Len(t, f.sender.notices, 2)
}

func TestEngine_UpdateStatus_DedupePickupNotice(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true, DedupePickupNotice: true})

	change := StatusChange{ApplicationID: 15, Status: "approved", Remarks: "Ready for pick-up"}

	first, err := f.engine.UpdateStatus(context.Background(), change)
	require.NoError(t, err)
	assert.Equal(t, types.NotificationStatusSent, first.Notification.Status)

	second, err := f.engine.UpdateStatus(context.Background(), change)
	require.NoError(t, err)
	assert.Equal(t, types.NotificationStatusSkipped, second.Notification.Status)

	assert.Len(t, f.sender.notices, 1)
}

func TestEngine_UpdateStatus_DedupeRecognisesLegacyRows(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true, DedupePickupNotice: true})
	row := f.applications.rows[15]
	row.Status = types.ApplicationStatusApproved
	row.Remarks = "Ready for pick-up"
	row.PickupReady = false

	change := StatusChange{ApplicationID: 15, Status: "approved", Remarks: "Ready for pick-up"}

	for range 2 {
		tr, err := f.engine.UpdateStatus(context.Background(), change)
		require.NoError(t, err)
		assert.Equal(t, types.NotificationStatusSkipped, tr.Notification.Status)
	}

	assert.Empty(t, f.sender.notices)
}

func TestEngine_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		change   StatusChange
		expected error
	}{
		{
			name:     "unknown application",
			change:   StatusChange{ApplicationID: 404, Status: "approved"},
			expected: types.ErrApplicationNotFound,
		},
		{
			name:     "invalid status",
			change:   StatusChange{ApplicationID: 15, Status: "done"},
			expected: types.ErrInvalidStatus,
		},
		{
			name:     "stale version",
			change:   StatusChange{ApplicationID: 15, Status: "approved", ExpectedVersion: 7},
			expected: types.ErrStaleApplication,
		},
		{
			name:     "backwards move with ordering enforced",
			opts:     Options{EnforceOrdering: true},
			change:   StatusChange{ApplicationID: 15, Status: "pending"},
			expected: types.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.opts)

			_, err := f.engine.UpdateStatus(context.Background(), tt.change)
			assert.ErrorIs(t, err, tt.expected)
			assert.Zero(t, f.applications.writes)
			assert.Empty(t, f.sender.notices)
		})
	}
}

func TestEngine_UpdateStatus_StoreFailureIsPersistenceError(t *testing.T) {
	f := newFixture(t, Options{})
	f.applications.err = errors.New("connection reset")

	_, err := f.engine.UpdateStatus(context.Background(), StatusChange{ApplicationID: 15, Status: "approved"})
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.Empty(t, f.sender.notices)
}

func TestEngine_UpdateStatus_MatchingVersion(t *testing.T) {
	f := newFixture(t, Options{})

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID:   15,
		Status:          "rejected",
		ExpectedVersion: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tr.Application.Version)

	_, err = f.engine.UpdateStatus(context.Background(), StatusChange{
		ApplicationID:   15,
		Status:          "approved",
		ExpectedVersion: 1,
	})
	assert.ErrorIs(t, err, types.ErrStaleApplication)
}

func TestEngine_UpdateStatus_OrderingDisabledAllowsAnyMove(t *testing.T) {
	f := newFixture(t, Options{})
	f.applications.rows[15].Status = types.ApplicationStatusClaimed

	tr, err := f.engine.UpdateStatus(context.Background(), StatusChange{ApplicationID: 15, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusPending, tr.Application.Status)
}

func TestEngine_StartProcessing(t *testing.T) {
	f := newFixture(t, Options{})
	f.applications.rows[15].Status = types.ApplicationStatusRejected

	app, err := f.engine.StartProcessing(context.Background(), 15, "re-opened")
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusProcessing, app.Status)
	assert.Equal(t, "re-opened", app.Remarks)
	assert.Empty(t, f.sender.notices)

	_, err = f.engine.StartProcessing(context.Background(), 404, "")
	assert.ErrorIs(t, err, types.ErrApplicationNotFound)
}

func TestEngine_MarkGenerated(t *testing.T) {
	tests := []struct {
		from     types.ApplicationStatus
		expected types.ApplicationStatus
		writes   int
	}{
		{from: types.ApplicationStatusPending, expected: types.ApplicationStatusProcessing, writes: 1},
		{from: types.ApplicationStatusProcessing, expected: types.ApplicationStatusProcessing, writes: 0},
		{from: types.ApplicationStatusApproved, expected: types.ApplicationStatusApproved, writes: 0},
		{from: types.ApplicationStatusRejected, expected: types.ApplicationStatusRejected, writes: 0},
		{from: types.ApplicationStatusClaimed, expected: types.ApplicationStatusClaimed, writes: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			f := newFixture(t, Options{})
			f.applications.rows[15].Status = tt.from

			app, err := f.engine.MarkGenerated(context.Background(), 15)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, app.Status)
			assert.Equal(t, tt.writes, f.applications.writes)
		})
	}
}

func TestEngine_Certificate(t *testing.T) {
	f := newFixture(t, Options{})

	doc, err := f.engine.Certificate(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, types.CertificateTemplateClearance, doc.Template)
	assert.Equal(t, "BRG-000015 (2024)", doc.ReferenceNumber)
	assert.Zero(t, f.applications.writes)

	_, err = f.engine.Certificate(context.Background(), 16)
	assert.ErrorIs(t, err, types.ErrUserNotFound)

	_, err = f.engine.Certificate(context.Background(), 404)
	assert.ErrorIs(t, err, types.ErrApplicationNotFound)
}

func TestEngine_Certificate_UnresolvedServiceUsesGeneral(t *testing.T) {
	f := newFixture(t, Options{})
	f.applications.rows[16].ApplicantID = 3

	doc, err := f.engine.Certificate(context.Background(), 16)
	require.NoError(t, err)
	assert.Equal(t, types.CertificateTemplateGeneral, doc.Template)
}

func TestEngine_GenerateCertificate(t *testing.T) {
	f := newFixture(t, Options{})
	f.applications.rows[15].Status = types.ApplicationStatusPending

	doc, err := f.engine.GenerateCertificate(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, "BARANGAY CLEARANCE", doc.Title)

	stored, err := f.applications.Application(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusProcessing, stored.Status)
}

func TestEngine_ClearanceLifecycle(t *testing.T) {
	f := newFixture(t, Options{LegacyRemarksSignal: true})
	ctx := context.Background()
	f.applications.rows[15].Status = types.ApplicationStatusPending

	app, err := f.engine.StartProcessing(ctx, 15, "Reviewing requirements")
	require.NoError(t, err)
	assert.Equal(t, "Processing", f.engine.DisplayState(app))

	doc, err := f.engine.GenerateCertificate(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, "BRG-000015 (2024)", doc.ReferenceNumber)

	tr, err := f.engine.UpdateStatus(ctx, StatusChange{ApplicationID: 15, Status: "approved", Remarks: "Ready for pick-up"})
	require.NoError(t, err)
	assert.Equal(t, ReadyForPickupLabel, f.engine.DisplayState(tr.Application))
	assert.Equal(t, "BRG-000015 (2024)", tr.Notification.ReferenceNumber)

	tr, err = f.engine.UpdateStatus(ctx, StatusChange{ApplicationID: 15, Status: "claimed", Remarks: "Claimed by applicant"})
	require.NoError(t, err)
	assert.Equal(t, "Claimed", f.engine.DisplayState(tr.Application))
	assert.False(t, tr.Application.PickupReady)

	_, err = f.engine.MarkGenerated(ctx, 15)
	require.NoError(t, err)

	stored, err := f.applications.Application(ctx, 15)
	require.NoError(t, err)
	assert.Equal(t, types.ApplicationStatusClaimed, stored.Status)
	assert.Len(t, f.sender.notices, 1)
}
