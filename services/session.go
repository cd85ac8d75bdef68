package services

import (
	"context"
	"fmt"
	"sync"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"

	"go.uber.org/zap"
)

// SessionContext tracks the signed-in user of one client and mirrors it to
// the client's storage under the session key.
type SessionContext struct {
	kv     store.KV
	logger *zap.Logger

	mu      sync.RWMutex
	user    *models.User
	token   string
	loading bool
}

// NewSessionContext returns a context that is loading until Restore runs.
func NewSessionContext(kv store.KV, logger *zap.Logger) *SessionContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionContext{kv: kv, logger: logger, loading: true}
}

// Restore reads the stored session. Sessions saved under the older separate
// user/token keys are moved to the session key.
func (s *SessionContext) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	var saved models.Session
	found, err := store.GetJSON(ctx, s.kv, store.KeySession, &saved)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !found {
		migrated, err := s.migrateLegacy(ctx, &saved)
		if err != nil {
			return err
		}
		if !migrated {
			return nil
		}
	}
	if saved.User.ID == 0 && saved.User.Email == "" {
		return nil
	}
	user := saved.User
	s.user = &user
	s.token = saved.Token
	return nil
}

func (s *SessionContext) migrateLegacy(ctx context.Context, out *models.Session) (bool, error) {
	var user models.User
	found, err := store.GetJSON(ctx, s.kv, store.KeyLegacyUser, &user)
	if err != nil || !found {
		return false, err
	}
	raw, _, err := s.kv.Get(ctx, store.KeyLegacyToken)
	if err != nil {
		return false, err
	}
	var token string
	if _, err := store.GetJSON(ctx, s.kv, store.KeyLegacyToken, &token); err != nil {
		// the token used to be stored as a bare string
		token = string(raw)
	}

	*out = models.Session{User: user, Token: token}
	if err := store.SetJSON(ctx, s.kv, store.KeySession, out); err != nil {
		return false, err
	}
	for _, key := range []string{store.KeyLegacyUser, store.KeyLegacyToken} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.logger.Warn("legacy session key not removed", zap.String("key", key), zap.Error(err))
		}
	}
	s.logger.Info("migrated legacy session keys", zap.Int64("user_id", user.ID))
	return true, nil
}

// Login records the user and token in memory and in storage.
func (s *SessionContext) Login(ctx context.Context, user models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user = user.Public()
	if err := store.SetJSON(ctx, s.kv, store.KeySession, models.Session{User: user, Token: token}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.user = &user
	s.token = token
	s.loading = false
	return nil
}

// Logout forgets the user in memory and in storage.
func (s *SessionContext) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{store.KeySession, store.KeyLegacyUser, store.KeyLegacyToken} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	s.user = nil
	s.token = ""
	return nil
}

// Loading is true until the stored session has been read.
func (s *SessionContext) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// CurrentUser returns the signed-in user, if any.
func (s *SessionContext) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *SessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionContext) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// HasRole reports whether the signed-in user has the given type.
func (s *SessionContext) HasRole(role models.UserType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	switch role {
	case models.UserTypeCustomer, models.UserTypeProvider, models.UserTypeAdmin:
		return s.user.Type == role
	default:
		return false
	}
}

func (s *SessionContext) IsCustomer() bool { return s.HasRole(models.UserTypeCustomer) }

func (s *SessionContext) IsProvider() bool { return s.HasRole(models.UserTypeProvider) }

func (s *SessionContext) IsAdmin() bool { return s.HasRole(models.UserTypeAdmin) }

// SessionRegistry keeps one restored SessionContext per client.
type SessionRegistry struct {
	kv     store.KV
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*SessionContext
}

func NewSessionRegistry(kv store.KV, logger *zap.Logger) *SessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRegistry{kv: kv, logger: logger, sessions: make(map[int64]*SessionContext)}
}

// Get returns the client's session context, restoring it on first use.
func (r *SessionRegistry) Get(ctx context.Context, userID int64) (*SessionContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s, nil
	}
	s := NewSessionContext(store.ClientNamespace(r.kv, userID), r.logger.With(zap.Int64("user_id", userID)))
	if err := s.Restore(ctx); err != nil {
		return nil, err
	}
	r.sessions[userID] = s
	return s, nil
}
