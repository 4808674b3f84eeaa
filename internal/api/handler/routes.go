package handler

import (
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Routes mounts every endpoint under /api.
func (h *Handler) Routes(r gin.IRouter, tokens *auth.TokenIssuer) {
	api := r.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", auth.Middleware(tokens))
	authed.GET("/auth/me", h.Me)
	authed.GET("/auth/telegram-link", h.TelegramLink)

	authed.GET("/categories", h.ListCategories)
	authed.GET("/categories/:category/fields", h.CategoryFields)

	submitters := authed.Group("", auth.RequireRole(models.RoleStudent, models.RoleFaculty))
	submitters.GET("/wizard", h.GetWizard)
	submitters.POST("/wizard", h.StartWizard)
	submitters.PUT("/wizard/basics", h.UpdateBasics)
	submitters.POST("/wizard/next", h.NextStep)
	submitters.POST("/wizard/back", h.PreviousStep)
	submitters.PUT("/wizard/details", h.UpdateDetails)
	submitters.POST("/wizard/submit", h.SubmitWizard)
	submitters.DELETE("/wizard", h.CancelWizard)

	authed.GET("/grievances", h.ListMyGrievances)
	authed.GET("/grievances/:id", h.GetGrievance)
	authed.GET("/grievances/:id/history", h.GetGrievanceHistory)

	admin := authed.Group("/admin", auth.RequireRole(models.RoleAdmin))
	admin.GET("/grievances", h.ListAllGrievances)
	admin.PATCH("/grievances/:id", h.UpdateGrievanceStatus)
	admin.GET("/analytics", h.Analytics)
	admin.GET("/ws", h.ServeWebSocket)
}

// requester builds the acting user from the token claims.
func requester(c *gin.Context) *models.User {
	claims := auth.ClaimsFromContext(c.Request.Context())
	if claims == nil {
		return &models.User{}
	}
	return &models.User{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
}
