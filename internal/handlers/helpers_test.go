package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalItems)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	p = NewPagination(3, 10, 25)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	// Boundary: page*limit == total means no next page
	p = NewPagination(2, 10, 20)
	assert.False(t, p.HasNext)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		url       string
		wantPage  int
		wantLimit int
	}{
		{"/api/journals/my", 1, 10},
		{"/api/journals/my?page=3&limit=20", 3, 20},
		{"/api/journals/my?page=0&limit=-5", 1, 10},
		{"/api/journals/my?page=abc&limit=xyz", 1, 10},
		{"/api/journals/my?limit=500", 1, 50},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.url, nil)
		page, limit := parsePageParams(req)
		assert.Equal(t, tt.wantPage, page, tt.url)
		assert.Equal(t, tt.wantLimit, limit, tt.url)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "Journal not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"Journal not found"}`, rec.Body.String())
}
