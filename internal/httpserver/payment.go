package httpserver

import (
	"io"
	"net/http"

	"quickbites-backend/internal/service/payment"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "Stripe-Signature"

// maxEventBytes caps the webhook body read.
const maxEventBytes = 1 << 20

type createIntentRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

func createIntentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "orderId is required")
			return
		}
		intent, err := svc.CreateIntent(c.Request.Context(), req.OrderID, currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", intent)
	}
}

type confirmPaymentRequest struct {
	PaymentReference string `json:"paymentReference" binding:"required"`
}

func confirmPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "paymentReference is required")
			return
		}
		result, err := svc.Confirm(c.Request.Context(), req.PaymentReference)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if !result.Paid {
			respondOK(c, http.StatusOK, "Payment not successful", result)
			return
		}
		respondOK(c, http.StatusOK, "Payment confirmed", result)
	}
}

func paymentWebhookHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBytes))
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable payload")
			return
		}
		if err := svc.HandleEvent(c.Request.Context(), payload, c.GetHeader(signatureHeader)); err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "received", nil)
	}
}
