// Package grievance provides the business logic around persisted
// grievances: insertion from the wizard, listings, admin status updates
// and dashboard analytics.
package grievance

import (
	"context"
	"errors"

	"grievanceportal/backend/internal/analysis"
	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"grievanceportal/backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier tells a submitter that their grievance changed status.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, user *models.User, g *models.Grievance) error
}

// Service handles the business logic for grievances.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
	Logger   *zap.Logger
}

// NewService creates a new grievance service. notifier may be nil.
func NewService(s storage.Storage, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{Storage: s, Notifier: notifier, Logger: logger}
}

// Insert persists a grievance assembled by the wizard. The storage error
// is returned as is.
func (s *Service) Insert(ctx context.Context, g *models.Grievance) error {
	if err := s.Storage.CreateGrievance(ctx, g); err != nil {
		s.Logger.Error("failed to create grievance", zap.String("user_id", g.SubmittedBy), zap.Error(err))
		return err
	}
	s.Logger.Info("grievance submitted",
		zap.String("grievance_id", g.ID),
		zap.String("code", g.Code),
		zap.String("category", string(g.Category)),
	)
	s.publish(ctx, models.NewGrievanceEvent(models.EventGrievanceSubmitted, g, g.SubmittedBy))
	return nil
}

// ListMine returns the user's grievances, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]models.Grievance, error) {
	list, err := s.Storage.ListGrievances(ctx, storage.GrievanceQuery{SubmittedBy: userID})
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return list, nil
}

// CheckID rejects ids that cannot name a stored grievance.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("grievance not found", err)
	}
	return nil
}

// Get returns a grievance visible to requester: their own, or any for admins.
func (s *Service) Get(ctx context.Context, id string, requester *models.User) (*models.Grievance, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}
	g, err := s.Storage.GetGrievance(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("grievance not found", err)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if !requester.IsAdmin() && g.SubmittedBy != requester.ID {
		return nil, apperr.Forbidden("you can only view your own grievances")
	}
	return g, nil
}

// History returns the status changes of a grievance visible to requester.
func (s *Service) History(ctx context.Context, id string, requester *models.User) ([]models.GrievanceStatusHistory, error) {
	if _, err := s.Get(ctx, id, requester); err != nil {
		return nil, err
	}
	history, err := s.Storage.ListStatusHistory(ctx, id)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return history, nil
}

// ListAll returns every grievance matching f, newest first.
func (s *Service) ListAll(ctx context.Context, f analysis.Filter) ([]models.Grievance, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}

	q := storage.GrievanceQuery{Category: f.Category}
	if f.Status != "" {
		q.Statuses = []models.Status{f.Status}
	}
	list, err := s.Storage.ListGrievances(ctx, q)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return analysis.Apply(list, f), nil
}

// StatusChange is an admin's update of one grievance.
type StatusChange struct {
	Status             string  `json:"status" validate:"required,grievance_status"`
	ResolutionComments *string `json:"resolution_comments" validate:"omitempty,max=2000"`
	AssignedTo         *string `json:"assigned_to" validate:"omitempty,uuid"`
}

// UpdateStatus applies change to grievance id on behalf of admin. Any
// status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id string, change StatusChange, admin *models.User) (*models.Grievance, error) {
	if admin == nil || !admin.IsAdmin() {
		return nil, apperr.Forbidden("only administrators can update grievances")
	}
	if err := CheckID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(change); err != nil {
		return nil, err
	}
	status, _ := models.ParseStatus(change.Status)

	g, history, err := s.Storage.UpdateGrievanceStatus(ctx, storage.StatusUpdate{
		GrievanceID:        id,
		Status:             status,
		ResolutionComments: change.ResolutionComments,
		AssignedTo:         change.AssignedTo,
		ChangedBy:          admin.ID,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("grievance not found", err)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	s.Logger.Info("grievance status updated",
		zap.String("grievance_id", g.ID),
		zap.String("from", string(history.OldStatus)),
		zap.String("to", string(history.NewStatus)),
		zap.String("admin_id", admin.ID),
	)

	event := models.NewGrievanceEvent(models.EventStatusChanged, g, admin.ID)
	event.OldStatus = history.OldStatus
	s.publish(ctx, event)
	s.notify(ctx, g)
	return g, nil
}

// Analytics summarises every grievance.
func (s *Service) Analytics(ctx context.Context) (analysis.Summary, error) {
	list, err := s.Storage.ListGrievances(ctx, storage.GrievanceQuery{})
	if err != nil {
		return analysis.Summary{}, apperr.Persistence(err)
	}
	return analysis.Summarize(list), nil
}

func (s *Service) publish(ctx context.Context, event models.GrievanceEvent) {
	if err := s.Storage.PublishEvent(ctx, event); err != nil {
		s.Logger.Warn("failed to publish grievance event",
			zap.String("type", string(event.Type)),
			zap.String("grievance_id", event.GrievanceID),
			zap.Error(err),
		)
	}
}

func (s *Service) notify(ctx context.Context, g *models.Grievance) {
	if s.Notifier == nil {
		return
	}
	user, err := s.Storage.GetUserByID(ctx, g.SubmittedBy)
	if err != nil {
		s.Logger.Warn("failed to load submitter for notification", zap.String("user_id", g.SubmittedBy), zap.Error(err))
		return
	}
	if !user.HasTelegram() {
		return
	}
	if err := s.Notifier.NotifyStatusChange(ctx, user, g); err != nil {
		s.Logger.Warn("failed to notify submitter", zap.String("user_id", user.ID), zap.Error(err))
	}
}
