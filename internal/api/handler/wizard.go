package handler

import (
	"net/http"
	"sort"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/wizard"

	"github.com/gin-gonic/gin"
)

type wizardResponse struct {
	State         wizard.State             `json:"state"`
	Draft         wizard.Draft             `json:"draft"`
	SubCategories []string                 `json:"sub_categories,omitempty"`
	Fields        []models.FieldDescriptor `json:"fields,omitempty"`
}

func (h *Handler) wizardView(p *wizard.Pipeline) wizardResponse {
	d := p.Draft()
	resp := wizardResponse{State: p.State(), Draft: d, Fields: p.Fields()}
	if d.Category != "" {
		resp.SubCategories, _ = h.Registry.ListSubCategories(d.Category)
	}
	return resp
}

// step applies fn to the caller's pipeline under the draft lock and
// stores the result. Nothing is stored when fn fails.
func (h *Handler) step(c *gin.Context, fn func(p *wizard.Pipeline) error) {
	p, err := h.Drafts.Update(c.Request.Context(), c.GetString(auth.ContextUserID), fn)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.wizardView(p))
}

func (h *Handler) GetWizard(c *gin.Context) {
	p, err := h.Drafts.Load(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.wizardView(p))
}

// StartWizard discards any draft in progress and starts a new one.
func (h *Handler) StartWizard(c *gin.Context) {
	p, err := h.Drafts.Start(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.wizardView(p))
}

func (h *Handler) UpdateBasics(c *gin.Context) {
	var in wizard.Basics
	if !h.bindJSON(c, &in) {
		return
	}
	h.step(c, func(p *wizard.Pipeline) error { return p.ApplyBasics(in) })
}

func (h *Handler) NextStep(c *gin.Context) {
	h.step(c, (*wizard.Pipeline).Next)
}

func (h *Handler) PreviousStep(c *gin.Context) {
	h.step(c, (*wizard.Pipeline).Back)
}

type detailsRequest struct {
	Details map[string]string `json:"details"`
}

// UpdateDetails sets several detail fields at once. Either every value is
// accepted or none is stored.
func (h *Handler) UpdateDetails(c *gin.Context) {
	var in detailsRequest
	if !h.bindJSON(c, &in) {
		return
	}
	keys := make([]string, 0, len(in.Details))
	for k := range in.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h.step(c, func(p *wizard.Pipeline) error {
		var invalid []apperr.FieldError
		for _, k := range keys {
			err := p.SetDetail(k, in.Details[k])
			if err == nil {
				continue
			}
			if !apperr.IsValidation(err) {
				return err
			}
			invalid = append(invalid, apperr.FieldsOf(err)...)
		}
		if len(invalid) > 0 {
			return apperr.Validation("invalid details", invalid...)
		}
		return nil
	})
}

// SubmitWizard persists the draft. On a storage failure the draft is kept
// so the user can retry.
func (h *Handler) SubmitWizard(c *gin.Context) {
	_, record, err := h.Drafts.Submit(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"grievance": record})
}

func (h *Handler) CancelWizard(c *gin.Context) {
	_, err := h.Drafts.Update(c.Request.Context(), c.GetString(auth.ContextUserID), (*wizard.Pipeline).Cancel)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
