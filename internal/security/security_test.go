package security

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"auctionbackend/internal/data"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()

	path := filepath.Join(t.TempDir(), "security_test.db")
	assert.Nil(t, data.InitDB(path))
	assert.Nil(t, data.EnsureSchema())
	t.Cleanup(func() { data.CloseDB() })

	repo := data.NewBidderRepo()
	hash, err := HashPassword("open-sesame")
	assert.Nil(t, err)
	err = repo.Seed([]data.SeedBidder{
		{Username: "admin", PasswordHash: hash, TeamName: "Auctioneer", IsAdmin: true},
		{Username: "csk", PasswordHash: hash, TeamName: "Chennai Super Kings"},
	}, 100)
	assert.Nil(t, err)

	return NewSessions(repo)
}

func TestHashPassword_NeverPlaintext(t *testing.T) {
	hash, err := HashPassword("open-sesame")
	assert.Nil(t, err)
	check.NotEqual(t, "open-sesame", hash)

	// Two hashes of the same password differ (salted).
	again, err := HashPassword("open-sesame")
	assert.Nil(t, err)
	check.NotEqual(t, hash, again)
}

func TestLogin(t *testing.T) {
	s := newTestSessions(t)

	identity, token, err := s.Login("csk", "open-sesame")
	assert.Nil(t, err)
	check.NotEqual(t, "", token)
	check.Equal(t, "csk", identity.Username)
	check.Equal(t, 100.0, identity.Purse)
	check.False(t, identity.Admin)

	_, _, err = s.Login("csk", "wrong")
	check.True(t, errors.Is(err, ErrInvalidCredentials))
	_, _, err = s.Login("nobody", "open-sesame")
	check.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestIdentityFromToken(t *testing.T) {
	s := newTestSessions(t)

	_, token, err := s.Login("admin", "open-sesame")
	assert.Nil(t, err)

	identity, err := s.IdentityFromToken(token)
	assert.Nil(t, err)
	check.True(t, identity.Admin)

	_, err = s.IdentityFromToken("forged-token")
	check.True(t, errors.Is(err, ErrInvalidToken))

	s.Logout(token)
	_, err = s.IdentityFromToken(token)
	check.True(t, errors.Is(err, ErrInvalidToken))
}

func TestIdentityFromToken_Expiry(t *testing.T) {
	s := newTestSessions(t)

	_, token, err := s.Login("csk", "open-sesame")
	assert.Nil(t, err)

	s.mu.Lock()
	sess := s.tokens[token]
	sess.expiry = time.Now().Add(-time.Minute)
	s.tokens[token] = sess
	s.mu.Unlock()

	_, err = s.IdentityFromToken(token)
	check.True(t, errors.Is(err, ErrInvalidToken))

	// Expired tokens are dropped on first use.
	s.mu.Lock()
	_, still := s.tokens[token]
	s.mu.Unlock()
	check.False(t, still)
}

func TestIsAdmin_ReadsFreshRole(t *testing.T) {
	s := newTestSessions(t)

	identity, _, err := s.Login("csk", "open-sesame")
	assert.Nil(t, err)

	isAdmin, err := s.IsAdmin(identity.ID)
	assert.Nil(t, err)
	check.False(t, isAdmin)

	// Promote in the store; the next check sees the new role without re-login.
	_, err = data.ExecDB(`UPDATE bidders SET is_admin = 1 WHERE id = ?`, identity.ID)
	assert.Nil(t, err)

	isAdmin, err = s.IsAdmin(identity.ID)
	assert.Nil(t, err)
	check.True(t, isAdmin)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/state", nil)
	check.Equal(t, "", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc123")
	check.Equal(t, "abc123", TokenFromRequest(r))

	// Non-bearer auth headers are ignored; the query parameter still works.
	r = httptest.NewRequest("GET", "/ws?token=query-token", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	check.Equal(t, "query-token", TokenFromRequest(r))
}
