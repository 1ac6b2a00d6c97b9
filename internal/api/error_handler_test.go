package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

func TestHTTPErrorHandler_MapsKinds(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantKind domain.Kind
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, domain.KindUnauthenticated},
		{domain.ErrForbidden, http.StatusForbidden, domain.KindForbidden},
		{domain.ErrArtworkNotFound, http.StatusNotFound, domain.KindNotFound},
		{domain.Invalid("title is required"), http.StatusBadRequest, domain.KindValidation},
		{domain.ErrEmailTaken, http.StatusConflict, domain.KindConflict},
		{domain.StorageFailure("insert", errors.New("connection reset")), http.StatusInternalServerError, domain.KindStorage},
		{errors.New("boom"), http.StatusInternalServerError, domain.KindInternal},
		{echo.ErrNotFound, http.StatusNotFound, domain.KindNotFound},
		{echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, domain.KindValidation},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handle(tc.err, e.NewContext(req, rec))

		if rec.Code != tc.wantCode {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.wantCode, rec.Code)
			continue
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body.Kind != tc.wantKind {
			t.Errorf("%v: expected kind %s, got %s", tc.err, tc.wantKind, body.Kind)
		}
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop())(domain.StorageFailure("insert", errors.New("mongodb://user:pw@db")), e.NewContext(req, rec))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "storage failure" {
		t.Fatalf("expected generic message, got %q", body.Error)
	}
}
