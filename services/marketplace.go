package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"go.uber.org/zap"
)

// TokenIssuer mints the session token handed out at login.
type TokenIssuer func(user models.User) (string, error)

// Marketplace is the mock backend: a static catalog plus append-only logs of
// bookings, contacts and users kept in the persistence port. Every call waits
// a simulated network latency before touching storage.
type Marketplace struct {
	kv           store.KV
	catalog      []models.Service
	providers    []models.Provider
	delay        Delayer
	clock        Clock
	notifier     Notifier
	issueToken   TokenIssuer
	uniqueEmails bool
	logger       *zap.Logger

	mu     sync.Mutex // serializes read-modify-write of the shared logs
	lastID int64

	availMu      sync.Mutex
	availability map[int64]*Availability
}

type Option func(*Marketplace)

func WithDelayer(d Delayer) Option { return func(m *Marketplace) { m.delay = d } }

func WithClock(c Clock) Option { return func(m *Marketplace) { m.clock = c } }

func WithNotifier(n Notifier) Option { return func(m *Marketplace) { m.notifier = n } }

func WithTokenIssuer(t TokenIssuer) Option { return func(m *Marketplace) { m.issueToken = t } }

func WithLogger(l *zap.Logger) Option { return func(m *Marketplace) { m.logger = l } }

// WithUniqueEmails makes Register reject an email that is already registered.
func WithUniqueEmails(on bool) Option { return func(m *Marketplace) { m.uniqueEmails = on } }

func WithCatalog(services []models.Service) Option {
	return func(m *Marketplace) { m.catalog = services }
}

func WithProviders(providers []models.Provider) Option {
	return func(m *Marketplace) { m.providers = providers }
}

func NewMarketplace(kv store.KV, opts ...Option) *Marketplace {
	m := &Marketplace{
		kv:           kv,
		catalog:      DefaultCatalog(),
		providers:    DefaultProviders(),
		delay:        TimerDelayer{},
		clock:        SystemClock,
		logger:       zap.NewNop(),
		availability: make(map[int64]*Availability),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = &LogNotifier{Logger: m.logger}
	}
	if m.issueToken == nil {
		m.issueToken = m.demoToken
	}
	return m
}

func (m *Marketplace) demoToken(models.User) (string, error) {
	return fmt.Sprintf("demo-token-%d", m.clock.Now().UnixMilli()), nil
}

// nextIDLocked returns a timestamp-derived id that is strictly greater than
// the previous one. m.mu must be held.
func (m *Marketplace) nextIDLocked() int64 {
	id := m.clock.Now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func loadLog[T any](ctx context.Context, kv store.KV, key string) ([]T, error) {
	var items []T
	if _, err := store.GetJSON(ctx, kv, key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func appendLog[T any](ctx context.Context, kv store.KV, key string, records ...T) error {
	items, err := loadLog[T](ctx, kv, key)
	if err != nil {
		return err
	}
	return store.SetJSON(ctx, kv, key, append(items, records...))
}

// ListServices returns the catalog entries whose name or description contains
// query (case-insensitive) and whose category matches. An empty category or
// "all" matches every category.
func (m *Marketplace) ListServices(ctx context.Context, query string, category models.Category) ([]models.Service, error) {
	if err := m.delay.Wait(ctx, latencyListServices); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]models.Service, 0, len(m.catalog))
	for _, s := range m.catalog {
		if q != "" &&
			!strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) {
			continue
		}
		if category != "" && category != models.CategoryAll && s.Category != category {
			continue
		}
		result = append(result, s.Clone())
	}
	return result, nil
}

// GetServiceByID returns the catalog entry with the given id.
func (m *Marketplace) GetServiceByID(ctx context.Context, id int) (models.Service, error) {
	if err := m.delay.Wait(ctx, latencyGetService); err != nil {
		return models.Service{}, err
	}
	return m.findService(id)
}

func (m *Marketplace) findService(id int) (models.Service, error) {
	for _, s := range m.catalog {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return models.Service{}, notFound("service", id)
}

// SubmitBooking validates and stores a new pending booking.
func (m *Marketplace) SubmitBooking(ctx context.Context, in models.BookingInput) (models.Booking, error) {
	booking, err := m.prepareBooking(in)
	if err != nil {
		return models.Booking{}, err
	}
	if err := m.delay.Wait(ctx, latencyBooking); err != nil {
		return models.Booking{}, err
	}

	m.mu.Lock()
	booking.ID = m.nextIDLocked()
	booking.CreatedAt = m.clock.Now().UTC()
	err = appendLog(ctx, m.kv, store.KeyBookings, booking)
	m.mu.Unlock()
	if err != nil {
		return models.Booking{}, fmt.Errorf("submit booking: %w", err)
	}

	m.logger.Info("booking submitted",
		zap.Int64("booking_id", booking.ID),
		zap.Int("service_id", booking.ServiceID))

	m.reserveSlot(ctx, booking)
	m.notify(ctx, models.EventBookingCreated, booking)
	return booking, nil
}

func (m *Marketplace) prepareBooking(in models.BookingInput) (models.Booking, error) {
	missing := utils.MissingFields(
		utils.Field{Name: "name", Value: in.Name},
		utils.Field{Name: "phone", Value: in.Phone},
		utils.Field{Name: "email", Value: in.Email},
		utils.Field{Name: "address", Value: in.Address},
		utils.Field{Name: "date", Value: in.Date},
		utils.Field{Name: "time", Value: in.Time},
		utils.Field{Name: "description", Value: in.Description},
	)
	if in.ServiceID <= 0 {
		missing = append(missing, "serviceId")
	}
	if len(missing) > 0 {
		return models.Booking{}, newValidationError("missing required fields", missing...)
	}

	date, invalid := m.checkContactFields(in.Phone, in.Email, in.Date)
	if len(invalid) > 0 {
		return models.Booking{}, newValidationError("invalid fields", invalid...)
	}

	service, err := m.findService(in.ServiceID)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		Name:                strings.TrimSpace(in.Name),
		Phone:               strings.TrimSpace(in.Phone),
		Email:               strings.TrimSpace(in.Email),
		Address:             strings.TrimSpace(in.Address),
		Date:                date,
		Time:                strings.TrimSpace(in.Time),
		ServiceType:         in.ServiceType,
		Description:         strings.TrimSpace(in.Description),
		PreferredProvider:   in.PreferredProvider,
		SpecialInstructions: in.SpecialInstructions,
		ServiceID:           service.ID,
		ServiceName:         service.Name,
		ProviderName:        in.ProviderName,
		TotalPrice:          service.Price,
		Status:              models.BookingPending,
	}
	if in.ServiceName != "" {
		booking.ServiceName = in.ServiceName
	}

	if in.ProviderID != nil {
		provider, err := m.findProvider(*in.ProviderID)
		if err != nil {
			return models.Booking{}, err
		}
		id := provider.ID
		booking.ProviderID = &id
		booking.TotalPrice = provider.Price
		if booking.ProviderName == "" {
			booking.ProviderName = provider.Name
		}
	}

	if in.TotalPrice != "" {
		amount, err := utils.ParsePrice(in.TotalPrice)
		if err != nil {
			return models.Booking{}, newValidationError("invalid fields", "totalPrice")
		}
		booking.TotalPrice = utils.FormatPrice(amount)
	}
	return booking, nil
}

// checkContactFields validates formats of already-present fields and returns
// the normalized date plus the names of malformed fields.
func (m *Marketplace) checkContactFields(phone, email, date string) (string, []string) {
	var invalid []string
	if !utils.ValidatePhone(phone) {
		invalid = append(invalid, "phone")
	}
	if !utils.ValidateEmail(strings.TrimSpace(email)) {
		invalid = append(invalid, "email")
	}
	normalized, err := utils.NormalizeDate(strings.TrimSpace(date), m.clock.Now().Location())
	if err != nil {
		invalid = append(invalid, "date")
	}
	return normalized, invalid
}

// SubmitContact stores a contact message.
func (m *Marketplace) SubmitContact(ctx context.Context, in models.ContactInput) (models.ContactMessage, error) {
	missing := utils.MissingFields(
		utils.Field{Name: "name", Value: in.Name},
		utils.Field{Name: "email", Value: in.Email},
		utils.Field{Name: "message", Value: in.Message},
	)
	if len(missing) > 0 {
		return models.ContactMessage{}, newValidationError("missing required fields", missing...)
	}
	if !utils.ValidateEmail(strings.TrimSpace(in.Email)) {
		return models.ContactMessage{}, newValidationError("invalid fields", "email")
	}
	if in.ServiceID != nil {
		if _, err := m.findService(*in.ServiceID); err != nil {
			return models.ContactMessage{}, err
		}
	}
	if in.ProviderID != nil {
		if _, err := m.findProvider(*in.ProviderID); err != nil {
			return models.ContactMessage{}, err
		}
	}

	if err := m.delay.Wait(ctx, latencyContact); err != nil {
		return models.ContactMessage{}, err
	}

	msg := models.ContactMessage{
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      in.Phone,
		Subject:    in.Subject,
		Message:    in.Message,
		ServiceID:  in.ServiceID,
		ProviderID: in.ProviderID,
	}

	m.mu.Lock()
	msg.ID = m.nextIDLocked()
	msg.CreatedAt = m.clock.Now().UTC()
	err := appendLog(ctx, m.kv, store.KeyContacts, msg)
	m.mu.Unlock()
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("submit contact: %w", err)
	}
	return msg, nil
}

// Login synthesizes a session from the submitted email. The password is not
// checked against anything: this is a mock login, not authentication.
func (m *Marketplace) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return models.Session{}, &AuthError{Reason: "email and password are required"}
	}
	userType, err := models.ParseUserType(creds.Type)
	if err != nil {
		return models.Session{}, &AuthError{Reason: err.Error()}
	}

	if err := m.delay.Wait(ctx, latencyLogin); err != nil {
		return models.Session{}, err
	}

	user := models.User{
		ID:    emailUserID(email),
		Name:  strings.SplitN(email, "@", 2)[0],
		Email: email,
		Type:  userType,
	}
	users, err := loadLog[models.User](ctx, m.kv, store.KeyUsers)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if registered, ok := lastByEmail(users, email); ok {
		user.ID = registered.ID
		user.Phone = registered.Phone
		user.Address = registered.Address
		user.CreatedAt = registered.CreatedAt
		if registered.Name != "" {
			user.Name = registered.Name
		}
		if userType == models.UserTypeProvider {
			user.ServiceIDs = registered.ServiceIDs
			user.ProviderID = registered.ProviderID
		}
	} else if userType == models.UserTypeProvider {
		user.ProviderID = m.directoryEntry(user.Name, email, claimedEntries(users))
	}

	token, err := m.issueToken(user)
	if err != nil {
		return models.Session{}, fmt.Errorf("issue token: %w", err)
	}

	m.logger.Info("login", zap.Int64("user_id", user.ID), zap.String("type", string(user.Type)))
	return models.Session{User: user.Public(), Token: token}, nil
}

// emailUserID derives a stable id for an email that never registered.
func emailUserID(email string) int64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(email)))
	return int64(h.Sum32()) + 1
}

// lastByEmail returns the latest registration for email.
func lastByEmail(users []models.User, email string) (models.User, bool) {
	for i := len(users) - 1; i >= 0; i-- {
		if strings.EqualFold(users[i].Email, email) {
			return users[i], true
		}
	}
	return models.User{}, false
}

// claimedEntries collects the directory ids already linked to an account.
func claimedEntries(users []models.User) map[int64]bool {
	claimed := make(map[int64]bool)
	for _, u := range users {
		if u.ProviderID != nil {
			claimed[*u.ProviderID] = true
		}
	}
	return claimed
}

// directoryEntry finds the unclaimed directory provider an account stands
// for: the one with the same full name, else the one whose first name is the
// local part of email.
func (m *Marketplace) directoryEntry(name, email string, claimed map[int64]bool) *int64 {
	name = strings.TrimSpace(name)
	local := strings.SplitN(email, "@", 2)[0]

	var byEmail *int64
	for _, p := range m.providers {
		if claimed[p.ID] {
			continue
		}
		if strings.EqualFold(p.Name, name) {
			id := p.ID
			return &id
		}
		if first := strings.Fields(p.Name); byEmail == nil && len(first) > 0 && strings.EqualFold(first[0], local) {
			id := p.ID
			byEmail = &id
		}
	}
	return byEmail
}

// Register appends a new account to the user log.
func (m *Marketplace) Register(ctx context.Context, in models.RegisterInput) (models.User, error) {
	missing := utils.MissingFields(
		utils.Field{Name: "name", Value: in.Name},
		utils.Field{Name: "email", Value: in.Email},
		utils.Field{Name: "password", Value: in.Password},
	)
	if len(missing) > 0 {
		return models.User{}, newValidationError("missing required fields", missing...)
	}

	var invalid []string
	userType, err := models.ParseUserType(in.Type)
	if err != nil {
		invalid = append(invalid, "type")
	}
	email := strings.TrimSpace(in.Email)
	if !utils.ValidateEmail(email) {
		invalid = append(invalid, "email")
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		invalid = append(invalid, "phone")
	}
	for _, id := range in.ServiceIDs {
		if _, err := m.findService(id); err != nil {
			invalid = append(invalid, "services")
			break
		}
	}
	if len(invalid) > 0 {
		return models.User{}, newValidationError("invalid fields", invalid...)
	}

	user := models.User{
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Phone:      in.Phone,
		Address:    in.Address,
		Type:       userType,
		Password:   in.Password,
		ServiceIDs: in.ServiceIDs,
		Experience: in.Experience,
	}
	if err := user.HashPassword(); err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	if err := m.delay.Wait(ctx, latencyRegister); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users, err := loadLog[models.User](ctx, m.kv, store.KeyUsers)
	if err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	if _, exists := lastByEmail(users, email); exists && m.uniqueEmails {
		return models.User{}, newValidationError("email already registered", "email")
	}
	if userType == models.UserTypeProvider {
		user.ProviderID = m.directoryEntry(user.Name, email, claimedEntries(users))
	}

	user.ID = m.nextIDLocked()
	user.CreatedAt = m.clock.Now().UTC()
	if err := store.SetJSON(ctx, m.kv, store.KeyUsers, append(users, user)); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	m.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("type", string(user.Type)),
		zap.Int64("provider_id", user.ProviderRef()))
	return user.Public(), nil
}

func (m *Marketplace) notify(ctx context.Context, event models.NotificationEvent, b models.Booking) {
	if err := m.notifier.Notify(ctx, BookingNotification(event, b)); err != nil {
		m.logger.Warn("notification failed",
			zap.Int64("booking_id", b.ID),
			zap.String("event", string(event)),
			zap.Error(err))
	}
}
