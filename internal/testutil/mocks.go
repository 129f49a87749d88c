package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*user.User
	EmailIndex  map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[string]*user.User),
		EmailIndex: make(map[string]*user.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	u.Email = strings.ToLower(u.Email)
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.EmailInUse()
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Provider == "" {
		u.Provider = user.ProviderEmail
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

// MockBusinessRepository is a mock implementation of business.Repository
type MockBusinessRepository struct {
	mu          sync.Mutex
	Businesses  map[string]*business.Business
	CreateError error
	GetError    error
}

func NewMockBusinessRepository() *MockBusinessRepository {
	return &MockBusinessRepository{Businesses: make(map[string]*business.Business)}
}

func (m *MockBusinessRepository) Create(ctx context.Context, b *business.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, existing := range m.Businesses {
		if existing.UserID == b.UserID {
			return errors.Conflict("User already owns a business")
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Timezone == "" {
		b.Timezone = business.DefaultTimezone
	}
	if b.Language == "" {
		b.Language = business.LanguageEN
	}
	b.CreatedAt = time.Now()
	m.Businesses[b.ID] = b
	return nil
}

func (m *MockBusinessRepository) GetByUserID(ctx context.Context, userID string) (*business.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, b := range m.Businesses {
		if b.UserID == userID {
			return b, nil
		}
	}
	return nil, errors.NotFound("Business")
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id string) (*business.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	b, ok := m.Businesses[id]
	if !ok {
		return nil, errors.NotFound("Business")
	}
	return b, nil
}

func (m *MockBusinessRepository) Update(ctx context.Context, id string, patch business.Patch) (*business.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Businesses[id]
	if !ok {
		return nil, errors.NotFound("Business")
	}
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.LogoURL != nil {
		b.LogoURL = patch.LogoURL
	}
	if patch.Timezone != nil {
		b.Timezone = *patch.Timezone
	}
	if patch.Language != nil {
		b.Language = *patch.Language
	}
	return b, nil
}

func (m *MockBusinessRepository) ListIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return nil, m.GetError
	}
	ids := make([]string, 0, len(m.Businesses))
	for id := range m.Businesses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MockSettingsRepository is a mock implementation of settings.Repository
type MockSettingsRepository struct {
	mu          sync.Mutex
	Settings    map[string]*settings.ReminderSettings
	UpsertError error
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Settings: make(map[string]*settings.ReminderSettings)}
}

func (m *MockSettingsRepository) GetByBusinessID(ctx context.Context, businessID string) (*settings.ReminderSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Settings[businessID]
	if !ok {
		return nil, errors.NotFound("Reminder settings")
	}
	cp := *s
	return &cp, nil
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, s *settings.ReminderSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertError != nil {
		return m.UpsertError
	}
	if existing, ok := m.Settings[s.BusinessID]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
		s.CreatedAt = time.Now()
	}
	cp := *s
	m.Settings[s.BusinessID] = &cp
	return nil
}

// MockIntegrationRepository is a mock implementation of integration.Repository
type MockIntegrationRepository struct {
	mu           sync.Mutex
	Integrations map[string]*integration.CalendarIntegration
}

func NewMockIntegrationRepository() *MockIntegrationRepository {
	return &MockIntegrationRepository{Integrations: make(map[string]*integration.CalendarIntegration)}
}

func (m *MockIntegrationRepository) ListByBusinessID(ctx context.Context, businessID string) ([]*integration.CalendarIntegration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []*integration.CalendarIntegration{}
	for _, c := range m.Integrations {
		if c.BusinessID == businessID {
			items = append(items, c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *MockIntegrationRepository) Create(ctx context.Context, c *integration.CalendarIntegration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	m.Integrations[c.ID] = c
	return nil
}

func (m *MockIntegrationRepository) Update(ctx context.Context, id string, patch integration.Patch) (*integration.CalendarIntegration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Integrations[id]
	if !ok {
		return nil, errors.NotFound("Integration")
	}
	if patch.AccessToken != nil {
		c.AccessToken = patch.AccessToken
	}
	if patch.RefreshToken != nil {
		c.RefreshToken = patch.RefreshToken
	}
	if patch.CalendarID != nil {
		c.CalendarID = patch.CalendarID
	}
	if patch.SyncEnabled != nil {
		c.SyncEnabled = *patch.SyncEnabled
	}
	if patch.LastSyncAt != nil {
		c.LastSyncAt = patch.LastSyncAt
	}
	return c, nil
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Integrations, id)
	return nil
}

// MockAppointmentRepository is a mock implementation of appointment.Repository
type MockAppointmentRepository struct {
	mu           sync.Mutex
	Appointments map[string]*appointment.Appointment
}

func NewMockAppointmentRepository() *MockAppointmentRepository {
	return &MockAppointmentRepository{Appointments: make(map[string]*appointment.Appointment)}
}

func (m *MockAppointmentRepository) List(ctx context.Context, businessID string, filter appointment.Filter) ([]*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []*appointment.Appointment{}
	for _, a := range m.Appointments {
		if a.BusinessID != businessID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.From != nil && a.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.StartTime.After(*filter.To) {
			continue
		}
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StartTime.Before(items[j].StartTime) })
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Appointments[id]
	if !ok {
		return nil, errors.NotFound("Appointment")
	}
	return a, nil
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = appointment.StatusScheduled
	}
	a.CreatedAt = time.Now()
	m.Appointments[a.ID] = a
	return nil
}

func (m *MockAppointmentRepository) Update(ctx context.Context, id string, patch appointment.Patch) (*appointment.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Appointments[id]
	if !ok {
		return nil, errors.NotFound("Appointment")
	}
	if patch.ClientName != nil {
		a.ClientName = *patch.ClientName
	}
	if patch.ClientPhone != nil {
		a.ClientPhone = patch.ClientPhone
	}
	if patch.ClientEmail != nil {
		a.ClientEmail = patch.ClientEmail
	}
	if patch.ServiceName != nil {
		a.ServiceName = patch.ServiceName
	}
	if patch.StartTime != nil {
		a.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		a.EndTime = *patch.EndTime
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = patch.Notes
	}
	return a, nil
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Appointments, id)
	return nil
}

// MockReminderRepository is a mock implementation of reminder.Repository
type MockReminderRepository struct {
	mu        sync.Mutex
	Reminders []*reminder.Reminder
	ListError error
}

func NewMockReminderRepository() *MockReminderRepository {
	return &MockReminderRepository{}
}

func (m *MockReminderRepository) ListByBusinessID(ctx context.Context, businessID string, filter reminder.Filter) ([]*reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	items := []*reminder.Reminder{}
	for _, r := range m.Reminders {
		if r.Appointment == nil || r.Appointment.BusinessID != businessID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ScheduledFor.After(items[j].ScheduledFor) })
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (m *MockReminderRepository) Create(ctx context.Context, r *reminder.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = reminder.StatusPending
	}
	r.CreatedAt = time.Now()
	m.Reminders = append(m.Reminders, r)
	return nil
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	mu            sync.Mutex
	Subscriptions map[string]*subscription.Subscription
	CreateError   error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{Subscriptions: make(map[string]*subscription.Subscription)}
}

func (m *MockSubscriptionRepository) GetByBusinessID(ctx context.Context, businessID string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Subscriptions {
		if s.BusinessID == businessID {
			return s, nil
		}
	}
	return nil, errors.NotFound("Subscription")
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Plan == "" {
		s.Plan = subscription.PlanFree
	}
	if s.Status == "" {
		s.Status = subscription.StatusActive
	}
	s.CreatedAt = time.Now()
	m.Subscriptions[s.ID] = s
	return nil
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, id string, patch subscription.Patch) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subscriptions[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	if patch.Plan != nil {
		s.Plan = *patch.Plan
	}
	if patch.SMSLimit != nil {
		s.SMSLimit = *patch.SMSLimit
	}
	if patch.SMSUsed != nil {
		s.SMSUsed = *patch.SMSUsed
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	return s, nil
}

// MockAnalyticsRepository is a mock implementation of analytics.Repository
type MockAnalyticsRepository struct {
	mu           sync.Mutex
	Rows         map[string]*analytics.Daily // keyed by business id + date
	Computed     map[string]*analytics.Daily // keyed by business id
	ComputeError error
	UpsertCalls  int
}

func NewMockAnalyticsRepository() *MockAnalyticsRepository {
	return &MockAnalyticsRepository{
		Rows:     make(map[string]*analytics.Daily),
		Computed: make(map[string]*analytics.Daily),
	}
}

func (m *MockAnalyticsRepository) ListDaily(ctx context.Context, businessID, from, to string) ([]*analytics.Daily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []*analytics.Daily{}
	for _, d := range m.Rows {
		if d.BusinessID == businessID && d.Date >= from && d.Date <= to {
			items = append(items, d)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	return items, nil
}

func (m *MockAnalyticsRepository) Compute(ctx context.Context, businessID string, start, end time.Time, smsUnitCost float64) (*analytics.Daily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ComputeError != nil {
		return nil, m.ComputeError
	}
	d := &analytics.Daily{BusinessID: businessID, Date: start.UTC().Format(analytics.DateLayout)}
	if c, ok := m.Computed[businessID]; ok {
		cp := *c
		cp.BusinessID = businessID
		cp.Date = d.Date
		d = &cp
	}
	return d, nil
}

func (m *MockAnalyticsRepository) UpsertDaily(ctx context.Context, d *analytics.Daily) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	cp := *d
	m.Rows[d.BusinessID+"/"+d.Date] = &cp
	return nil
}
