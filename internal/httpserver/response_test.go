package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quickbites-backend/internal/domain"
	gateway "quickbites-backend/internal/payment"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.Validationf("bad input"), http.StatusBadRequest},
		{"unavailable items", &domain.UnavailableItemsError{Names: []string{"Fries"}}, http.StatusBadRequest},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"bad signature", gateway.ErrInvalidSignature, http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid transition", &domain.InvalidTransitionError{From: domain.StatusDelivered, To: domain.StatusPending}, http.StatusConflict},
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"processor down", &domain.ProcessorError{Op: "create intent", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"wrapped not found", errors.New("lookup: " + domain.ErrNotFound.Error()), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondDomainError(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d body=%s", tc.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
		})
	}
}

func TestRespondDomainErrorUnwrapsCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondDomainError(c, errors.Join(errors.New("load order"), domain.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped not found, got %d", rec.Code)
	}
}
