package httpserver

import (
	"net/http"

	"quickbites-backend/internal/service/menu"

	"github.com/gin-gonic/gin"
)

func listMenuHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The public catalog never shows unavailable items; staff use the
		// full listing route.
		items, err := svc.List(c.Request.Context(), c.Query("category"), true)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", items)
	}
}

func listFullMenuHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), c.Query("category"), false)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", items)
	}
}

func getMenuItemHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "", item)
	}
}

func createMenuItemHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menu.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, "Menu item created", item)
	}
}

func updateMenuItemHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menu.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		item, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Menu item updated", item)
	}
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

func setMenuAvailabilityHandler(svc *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req availabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "isAvailable is required")
			return
		}
		if err := svc.SetAvailability(c.Request.Context(), c.Param("id"), *req.IsAvailable); err != nil {
			respondDomainError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Availability updated", nil)
	}
}
