package problem

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHidesDetailInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/posts/missing", nil)

	Write(rec, req, 404, "about:blank", "Not Found", errors.New("post xyz missing from table"), "production")

	require.Equal(t, 404, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var p Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Not Found", p.Detail)
	require.Equal(t, "/posts/missing", p.Instance)
}

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)

	Write(rec, req, 500, "about:blank", "Internal Error", errors.New("pool exhausted"), "development")

	var p Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "pool exhausted", p.Detail)
}

func TestWriteDetailsWithValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDetails(rec, Details{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: 422,
		Errors: map[string]any{"email": "must be a valid email"},
	})

	require.Equal(t, 422, rec.Code)
	var p Details
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "must be a valid email", p.Errors["email"])
}
