// Package handler exposes the portal over HTTP and WebSocket.
package handler

import (
	"context"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/auth"
	"grievanceportal/backend/internal/grievance"
	"grievanceportal/backend/internal/hub"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/schema"
	"grievanceportal/backend/internal/wizard"

	"go.uber.org/zap"
)

// AuthService is implemented by auth.Service.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error)
	Login(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	TelegramLinkCode(ctx context.Context, userID string) (string, error)
}

// GrievanceService is implemented by grievance.Service.
type GrievanceService interface {
	ListMine(ctx context.Context, userID string) ([]models.Grievance, error)
	Get(ctx context.Context, id string, requester *models.User) (*models.Grievance, error)
	History(ctx context.Context, id string, requester *models.User) ([]models.GrievanceStatusHistory, error)
	ListAll(ctx context.Context, f analysis.Filter) ([]models.Grievance, error)
	UpdateStatus(ctx context.Context, id string, change grievance.StatusChange, admin *models.User) (*models.Grievance, error)
	Analytics(ctx context.Context) (analysis.Summary, error)
}

// Handler holds the services the HTTP routes call into.
type Handler struct {
	Auth       AuthService
	Grievances GrievanceService
	Registry   *schema.Registry
	Drafts     *wizard.Sessions
	Hub        *hub.Manager
	// BotUsername enables t.me deep links in the Telegram link response.
	BotUsername string

	logger *zap.Logger
}

func NewHandler(
	authSvc AuthService,
	grievances GrievanceService,
	registry *schema.Registry,
	drafts *wizard.Sessions,
	h *hub.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Auth:       authSvc,
		Grievances: grievances,
		Registry:   registry,
		Drafts:     drafts,
		Hub:        h,
		logger:     logger,
	}
}
