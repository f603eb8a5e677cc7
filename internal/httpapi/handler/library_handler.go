package handler

import (
	"context"
	"net/http"
	"time"

	"bookhub/internal/httpapi/dto"
	"bookhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	svc service.LibraryService
}

func NewLibraryHandler(svc service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

func (h *LibraryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rescan", h.Rescan)
	rg.GET("/status", h.Status)
}

// Rescan walks the library tree and reconciles book ownership flags
func (h *LibraryHandler) Rescan(c *gin.Context) {
	var req dto.RescanDTO
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	// large libraries mean many directory reads plus one bulk update
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := h.svc.Rescan(ctx, req.ForceOrDefault())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status reports the current ownership snapshot without rebuilding it
func (h *LibraryHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status(c.Request.Context()))
}
