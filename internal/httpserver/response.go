package httpserver

import (
	"errors"
	"net/http"

	"quickbites-backend/internal/domain"
	gateway "quickbites-backend/internal/payment"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope every endpoint speaks.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Success: false, Message: message})
}

// respondDomainError maps the error taxonomy onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var unavailableErr *domain.UnavailableItemsError
	var transitionErr *domain.InvalidTransitionError
	var processorErr *domain.ProcessorError

	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &unavailableErr):
		respondError(c, http.StatusBadRequest, unavailableErr.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.As(err, &transitionErr):
		respondError(c, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, domain.ErrConflict):
		respondError(c, http.StatusConflict, "conflicting state, please reload and retry")
	case errors.Is(err, gateway.ErrInvalidSignature):
		respondError(c, http.StatusBadRequest, "invalid event signature")
	case errors.As(err, &processorErr):
		respondError(c, http.StatusBadGateway, "payment processor unavailable, please retry payment")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
