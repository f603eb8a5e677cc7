package handler

import (
	"context"
	"net/http"
	"time"

	"bookhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	svc service.ImportService
}

func NewSearchHandler(svc service.ImportService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Search)
}

// Search proxies a title/author query to the catalogue
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.svc.SearchCatalogue(ctx, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
