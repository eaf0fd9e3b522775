package security

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestLoginHandler(t *testing.T) {
	s := newTestSessions(t)

	w := httptest.NewRecorder()
	s.LoginHandler(w, httptest.NewRequest("GET", "/api/login", nil))
	check.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	s.LoginHandler(w, httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username": "csk", "password": "open-sesame"}`)))
	check.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool     `json:"success"`
		Token   string   `json:"token"`
		User    Identity `json:"user"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	check.True(t, body.Success)
	check.NotEqual(t, "", body.Token)
	check.Equal(t, "csk", body.User.Username)
	// The password hash never appears in the response.
	check.False(t, strings.Contains(w.Body.String(), "$2a$"))

	w = httptest.NewRecorder()
	s.LoginHandler(w, httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username": "csk", "password": "wrong"}`)))
	check.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	s := newTestSessions(t)

	_, adminToken, err := s.Login("admin", "open-sesame")
	assert.Nil(t, err)
	_, cskToken, err := s.Login("csk", "open-sesame")
	assert.Nil(t, err)

	called := false
	handler := s.RequireAdmin(func(w http.ResponseWriter, r *http.Request, identity *Identity) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("POST", "/api/init", nil)
	w := httptest.NewRecorder()
	handler(w, r)
	check.Equal(t, http.StatusUnauthorized, w.Code)
	check.False(t, called)

	r = httptest.NewRequest("POST", "/api/init", nil)
	r.Header.Set("Authorization", "Bearer "+cskToken)
	w = httptest.NewRecorder()
	handler(w, r)
	check.Equal(t, http.StatusForbidden, w.Code)
	check.False(t, called)

	r = httptest.NewRequest("POST", "/api/init", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	handler(w, r)
	check.Equal(t, http.StatusOK, w.Code)
	check.True(t, called)
}
