package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestCategorySetHandler(t *testing.T) {
	p := NewPartitioner(testSource())
	handler := CategorySetHandler(p)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/api/category-set/Indian%20Bat/1", nil))
	check.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success  bool   `json:"success"`
		Category string `json:"category"`
		Set      int    `json:"set"`
		Players  []Item `json:"players"`
		Count    int    `json:"count"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	check.True(t, body.Success)
	check.Equal(t, "Indian Bat", body.Category)
	check.Equal(t, 1, body.Set)
	check.Equal(t, 3, body.Count)
	check.Equal(t, len(body.Players), body.Count)

	// The same split is served on every query.
	w2 := httptest.NewRecorder()
	handler(w2, httptest.NewRequest("GET", "/api/category-set/Indian%20Bat/1", nil))
	check.Equal(t, w.Body.String(), w2.Body.String())
}

func TestCategorySetHandler_BadRequests(t *testing.T) {
	p := NewPartitioner(testSource())
	handler := CategorySetHandler(p)

	cases := []struct {
		path   string
		status int
	}{
		{"/api/category-set/Indian%20Bat", http.StatusBadRequest},
		{"/api/category-set/Indian%20Bat/3", http.StatusBadRequest},
		{"/api/category-set/Indian%20Bat/one", http.StatusBadRequest},
		{"/api/category-set/Martian%20Spin/1", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", tc.path, nil))
		check.Equal(t, tc.status, w.Code)
	}
}
