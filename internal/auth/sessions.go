package auth

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/metrics"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// User database. The admin account doubles as a working-set exclusion in
// exports, so its username stays in sync with the export filter.
var users = map[string]string{
	"ctbonifacio": "admin",
	"dabaguas":    "viewer",
	"jtortega":    "viewer",
	"decajes":     "viewer",
}

const maxAttempts = 5

var (
	ErrLocked         = errors.New("too many failed attempts, try again later")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrInvalidToken   = errors.New("invalid or expired token")
)

// Claims are the session claims carried in issued tokens
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and validates session tokens. The password rotates daily
// and shifts with the shared failed-attempt counter, so a leaked value goes
// stale within the day. Lockout and attempts are global, not per user,
// matching how the single shared console behaves.
type Manager struct {
	secret        []byte
	sessionTTL    time.Duration
	lockoutWindow time.Duration
	logger        zerolog.Logger

	mu        sync.Mutex
	attempts  int
	lockUntil time.Time
	revoked   map[string]time.Time

	now func() time.Time
}

// NewManager creates a session manager
func NewManager(secret string, sessionTTL, lockoutWindow time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		secret:        []byte(secret),
		sessionTTL:    sessionTTL,
		lockoutWindow: lockoutWindow,
		logger:        logger.With().Str("component", "auth").Logger(),
		revoked:       make(map[string]time.Time),
		now:           time.Now,
	}
}

// dayPassword is the expected password at a point in time: the date as
// mmddyyyy with a 0 appended, plus the current failed-attempt count
func (m *Manager) dayPassword(at time.Time) string {
	base, _ := strconv.Atoi(at.Format("01022006") + "0")
	return strconv.Itoa(base + m.attempts)
}

// Login checks the credentials and returns a signed session token. Five
// failures in a row lock logins for the lockout window.
func (m *Manager) Login(username, password string) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.lockUntil.IsZero() && now.Before(m.lockUntil) {
		return "", time.Time{}, ErrLocked
	}

	role, known := users[username]
	if !known || password != m.dayPassword(now) {
		m.attempts++
		metrics.Get().RecordLoginFailure()
		if m.attempts >= maxAttempts {
			m.lockUntil = now.Add(m.lockoutWindow)
			m.attempts = 0
			metrics.Get().RecordLockout()
			m.logger.Warn().Str("username", username).Msg("login locked out")
			return "", time.Time{}, ErrLocked
		}
		m.logger.Warn().Str("username", username).Int("attempts", m.attempts).Msg("login failed")
		return "", time.Time{}, ErrBadCredentials
	}

	m.attempts = 0
	m.lockUntil = time.Time{}

	expires := now.Add(m.sessionTTL)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	metrics.Get().RecordLogin()
	m.logger.Info().Str("username", username).Str("role", role).Msg("login successful")
	return token, expires, nil
}

// Validate parses and verifies a session token, rejecting revoked sessions
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token's session until its natural expiry
func (m *Manager) Logout(tokenString string) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[claims.ID] = claims.ExpiresAt.Time
	// Drop revocations whose tokens have expired anyway
	now := m.now()
	for id, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, id)
		}
	}
	m.logger.Info().Str("username", claims.Username).Msg("session revoked")
}
