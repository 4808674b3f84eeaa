package handler

import (
	"net/http"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type categoryResponse struct {
	Category      models.Category `json:"category"`
	SubCategories []string        `json:"sub_categories"`
}

// ListCategories returns the category tree in display order.
func (h *Handler) ListCategories(c *gin.Context) {
	out := make([]categoryResponse, 0, len(h.Registry.Categories()))
	for _, cat := range h.Registry.Categories() {
		subs, err := h.Registry.ListSubCategories(cat)
		if err != nil {
			h.respondError(c, err)
			return
		}
		out = append(out, categoryResponse{Category: cat, SubCategories: subs})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

type fieldsResponse struct {
	Category    models.Category          `json:"category"`
	SubCategory string                   `json:"sub_category"`
	Fallback    bool                     `json:"fallback"`
	Fields      []models.FieldDescriptor `json:"fields"`
}

// CategoryFields returns the detail schema of one (category, sub) pair.
func (h *Handler) CategoryFields(c *gin.Context) {
	category := models.Category(c.Param("category"))
	sub := c.Query("sub")
	if _, err := h.Registry.ListSubCategories(category); err != nil {
		h.respondError(c, err)
		return
	}
	if !h.Registry.HasSubCategory(category, sub) {
		h.respondError(c, apperr.NotFound("unknown sub-category", nil))
		return
	}
	c.JSON(http.StatusOK, fieldsResponse{
		Category:    category,
		SubCategory: sub,
		Fallback:    h.Registry.IsFallback(category, sub),
		Fields:      h.Registry.ResolveFieldSchema(category, sub),
	})
}
