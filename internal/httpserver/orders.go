package httpserver

import (
	"net/http"

	"quickbites-backend/internal/domain"
	"quickbites-backend/internal/service/checkout"
	"quickbites-backend/internal/service/order"

	"github.com/gin-gonic/gin"
)

// orderView decorates the order with the human-readable status summary.
type orderView struct {
	*domain.Order
	StatusDescription string `json:"statusDescription"`
}

func toOrderView(o *domain.Order) orderView {
	return orderView{Order: o, StatusDescription: o.OrderStatus.Description()}
}

func createOrderHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.CreateOrderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := svc.CreateOrder(c.Request.Context(), currentUserID(c), req)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, "Order placed", toOrderView(created))
	}
}

func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		views := make([]orderView, 0, len(orders))
		for i := range orders {
			views = append(views, toOrderView(&orders[i]))
		}
		respondOK(c, http.StatusOK, "", views)
	}
}

func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		found, err := svc.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", toOrderView(found))
	}
}

type cancelOrderRequest struct {
	Note string `json:"note"`
}

func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelOrderRequest
		_ = c.ShouldBindJSON(&req)
		cancelled, err := svc.Cancel(c.Request.Context(), c.Param("id"), currentUserID(c), req.Note)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Order cancelled", toOrderView(cancelled))
	}
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "status is required")
			return
		}
		updated, err := svc.Transition(c.Request.Context(), c.Param("id"), req.Status, "staff", req.Note)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Order status updated", toOrderView(updated))
	}
}
