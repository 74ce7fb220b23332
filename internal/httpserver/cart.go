package httpserver

import (
	"net/http"

	"quickbites-backend/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func getCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", result)
	}
}

func addCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "menuItemId is required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		result, err := svc.Add(c.Request.Context(), currentUserID(c), req.MenuItemID, req.Quantity)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Item added to cart", result)
	}
}

func updateCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "quantity is required")
			return
		}
		result, err := svc.UpdateItem(c.Request.Context(), currentUserID(c), c.Param("itemId"), req.Quantity)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Cart updated", result)
	}
}

func removeCartItemHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Remove(c.Request.Context(), currentUserID(c), c.Param("itemId"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Item removed from cart", result)
	}
}

func clearCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUserID(c)); err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Cart cleared", nil)
	}
}

func cartSummaryHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", summary)
	}
}

func cartCountHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.Count(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", gin.H{"count": count})
	}
}
