// internal/security/security.go
package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auctionbackend/internal/data"
	"auctionbackend/internal/logger"
)

// Identity is an authenticated bidder. Admin is a role attribute resolved
// from the identity store, never a client-asserted flag.
type Identity struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	TeamName string  `json:"team_name"`
	Purse    float64 `json:"purse"`
	Admin    bool    `json:"is_admin"`
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid or expired session token")

const sessionTTL = time.Hour * 12

type session struct {
	bidderID int64
	expiry   time.Time
}

// Sessions owns login state: opaque bearer tokens mapped to bidder IDs.
// Identity details are re-read from the store on every use, so role changes
// are never served from a stale cache.
type Sessions struct {
	repo   *data.BidderRepo
	mu     sync.Mutex
	tokens map[string]session
}

func NewSessions(repo *data.BidderRepo) *Sessions {
	return &Sessions{
		repo:   repo,
		tokens: make(map[string]session),
	}
}

// HashPassword hashes a password for storage at provisioning time.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies credentials and opens a session.
func (s *Sessions) Login(username, password string) (*Identity, string, error) {
	bidder, err := s.repo.GetByUsername(strings.TrimSpace(username))
	if errors.Is(err, data.ErrBidderNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(bidder.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.tokens[token] = session{bidderID: bidder.ID, expiry: time.Now().Add(sessionTTL)}
	s.mu.Unlock()

	return identityOf(bidder), token, nil
}

// Logout invalidates a session token.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// IdentityFromToken resolves a session token to a fresh identity.
func (s *Sessions) IdentityFromToken(token string) (*Identity, error) {
	s.mu.Lock()
	sess, ok := s.tokens[token]
	if ok && time.Now().After(sess.expiry) {
		delete(s.tokens, token)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrInvalidToken
	}
	return s.Lookup(sess.bidderID)
}

// Lookup re-reads a bidder from the identity store.
func (s *Sessions) Lookup(bidderID int64) (*Identity, error) {
	bidder, err := s.repo.GetByID(bidderID)
	if err != nil {
		return nil, err
	}
	return identityOf(bidder), nil
}

// IsAdmin re-verifies the admin role against the identity store. Privileged
// engine operations call this per invocation rather than trusting a role
// carried on the connection.
func (s *Sessions) IsAdmin(bidderID int64) (bool, error) {
	bidder, err := s.repo.GetByID(bidderID)
	if err != nil {
		return false, err
	}
	return bidder.IsAdmin, nil
}

// CleanExpired periodically drops expired session tokens.
func (s *Sessions) CleanExpired() {
	ticker := time.NewTicker(time.Minute * 5)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for token, sess := range s.tokens {
			if now.After(sess.expiry) {
				delete(s.tokens, token)
			}
		}
		s.mu.Unlock()
		logger.LogInfo("Session token cleanup completed")
	}
}

// TokenFromRequest extracts the bearer token from the Authorization header
// or, for websocket clients, the token query parameter.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token := strings.TrimPrefix(auth, "Bearer "); token != auth {
			return token
		}
	}
	return r.URL.Query().Get("token")
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func identityOf(b *data.Bidder) *Identity {
	return &Identity{
		ID:       b.ID,
		Username: b.Username,
		TeamName: b.TeamName,
		Purse:    b.Purse,
		Admin:    b.IsAdmin,
	}
}
