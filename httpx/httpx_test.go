package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "down"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"degraded","database":"down"}`, rec.Body.String())
}

func TestJSONNilAndError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, nil)
	assert.Equal(t, "null", rec.Body.String())

	rec = httptest.NewRecorder()
	JSONError(rec, http.StatusBadRequest, "bad", nil)
	assert.JSONEq(t, `{"error":"bad"}`, rec.Body.String())
}

func TestSeeOther(t *testing.T) {
	rec := httptest.NewRecorder()
	SeeOther(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "/profile")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))
}

func TestLocalReferer(t *testing.T) {
	cases := [][2]string{
		{"", "/fallback"},
		{"http://example.com/login", "/login"},
		{"http://example.com/jobs/1?x=1", "/jobs/1?x=1"},
		{"http://evil.test/steal", "/fallback"},
		{"//evil.test/steal", "/fallback"},
		{"/verify", "/verify"},
	}
	for _, c := range cases {
		ref, want := c[0], c[1]
		r := httptest.NewRequest(http.MethodPost, "http://example.com/anything", nil)
		if ref != "" {
			r.Header.Set("Referer", ref)
		}
		assert.Equal(t, want, LocalReferer(r, "/fallback"), ref)
	}
}
