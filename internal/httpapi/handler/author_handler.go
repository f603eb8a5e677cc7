package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bookhub/internal/httpapi/dto"
	"bookhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	svc       service.AuthorService
	importSvc service.ImportService
}

func NewAuthorHandler(svc service.AuthorService, importSvc service.ImportService) *AuthorHandler {
	return &AuthorHandler{svc: svc, importSvc: importSvc}
}

func (h *AuthorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/import", h.Import)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List authors in shelf order, one keyset page at a time
func (h *AuthorHandler) List(c *gin.Context) {
	var query dto.ListAuthorsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cursor, err := dto.DecodeCursor(query.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, err := h.svc.List(ctx, cursor, query.Letter, query.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	authors := make([]dto.AuthorResponse, 0, len(page.Authors))
	for _, a := range page.Authors {
		authors = append(authors, dto.FromAuthorToResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"authors":     authors,
		"has_more":    page.HasMore,
		"next_cursor": dto.EncodeCursor(page.NextCursor),
	})
}

// Import an author and their bibliography from the catalogue
func (h *AuthorHandler) Import(c *gin.Context) {
	var req dto.ImportAuthorDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// bulk imports fetch one upstream record per work, so give the
	// whole operation a generous deadline
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	summary, err := h.importSvc.ImportAuthor(ctx, req.ExternalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"author":   dto.FromAuthorToResponse(*summary.Author),
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
	})
}

// GetByID returns one author with their active books
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	author, books, err := h.svc.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AuthorDetailResponse{
		AuthorResponse: dto.FromAuthorToResponse(*author),
		Books:          make([]dto.BookResponse, 0, len(books)),
	}
	for _, b := range books {
		resp.Books = append(resp.Books, dto.FromBookToResponse(b))
	}

	c.JSON(http.StatusOK, resp)
}

// Update author metadata; a rename recomputes the sort key
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	var req dto.UpdateAuthorDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	author, err := h.svc.Update(ctx, id, req.Name, req.Bio, req.PhotoURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAuthorToResponse(*author))
}

// Delete an author, cascading to their sole-authored books
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.svc.Delete(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
