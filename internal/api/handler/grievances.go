package handler

import (
	"net/http"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/grievance"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMyGrievances(c *gin.Context) {
	list, err := h.Grievances.ListMine(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievances": list})
}

// grievanceID reads the :id path parameter and answers 404 for anything
// that is not a UUID.
func (h *Handler) grievanceID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := grievance.CheckID(id); err != nil {
		h.respondError(c, err)
		return "", false
	}
	return id, true
}

func (h *Handler) GetGrievance(c *gin.Context) {
	id, ok := h.grievanceID(c)
	if !ok {
		return
	}
	g, err := h.Grievances.Get(c.Request.Context(), id, requester(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievance": g})
}

func (h *Handler) GetGrievanceHistory(c *gin.Context) {
	id, ok := h.grievanceID(c)
	if !ok {
		return
	}
	history, err := h.Grievances.History(c.Request.Context(), id, requester(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ListAllGrievances is the admin listing with search, category and
// status filters taken from the query string.
func (h *Handler) ListAllGrievances(c *gin.Context) {
	var f analysis.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.respondError(c, apperr.Validation("invalid query: "+err.Error()))
		return
	}
	list, err := h.Grievances.ListAll(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievances": list, "count": len(list)})
}

func (h *Handler) UpdateGrievanceStatus(c *gin.Context) {
	id, ok := h.grievanceID(c)
	if !ok {
		return
	}
	var change grievance.StatusChange
	if !h.bindJSON(c, &change) {
		return
	}
	g, err := h.Grievances.UpdateStatus(c.Request.Context(), id, change, requester(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievance": g})
}

func (h *Handler) Analytics(c *gin.Context) {
	summary, err := h.Grievances.Analytics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
