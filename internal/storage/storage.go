package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grievanceportal/backend/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const codeSequence = "grievance_code_seq"

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	SetUserTelegramChatID(ctx context.Context, userID string, chatID int64) error
	SetUserLanguage(ctx context.Context, userID, lang string) error

	CreateGrievance(ctx context.Context, g *models.Grievance) error
	GetGrievance(ctx context.Context, id string) (*models.Grievance, error)
	ListGrievances(ctx context.Context, q GrievanceQuery) ([]models.Grievance, error)
	UpdateGrievanceStatus(ctx context.Context, u StatusUpdate) (*models.Grievance, *models.GrievanceStatusHistory, error)
	ListStatusHistory(ctx context.Context, grievanceID string) ([]models.GrievanceStatusHistory, error)

	SaveDraft(ctx context.Context, userID string, data []byte, ttl time.Duration) error
	LoadDraft(ctx context.Context, userID string) ([]byte, error)
	DeleteDraft(ctx context.Context, userID string) error
	AcquireDraftLock(ctx context.Context, userID string, ttl time.Duration) (string, bool, error)
	ReleaseDraftLock(ctx context.Context, userID, token string) error

	SaveTelegramLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error
	ConsumeTelegramLinkCode(ctx context.Context, code string) (string, error)

	PublishEvent(ctx context.Context, event models.GrievanceEvent) error
}

// GrievanceQuery narrows ListGrievances. Zero values mean "any".
type GrievanceQuery struct {
	Category    models.Category
	Statuses    []models.Status
	SubmittedBy string
	Limit       int
}

// StatusUpdate is one administrative change to a grievance.
type StatusUpdate struct {
	GrievanceID        string
	Status             models.Status
	ResolutionComments *string
	AssignedTo         *string
	ChangedBy          string
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates the tables and the grievance code sequence.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Grievance{}, &models.GrievanceStatusHistory{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS " + codeSequence).Error; err != nil {
		return fmt.Errorf("create sequence: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetUserByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("telegram_chat_id = ?", chatID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// SetUserTelegramChatID links chatID to the user, unlinking any account
// the chat was previously attached to.
func (s *Service) SetUserTelegramChatID(ctx context.Context, userID string, chatID int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("telegram_chat_id = ? AND id <> ?", chatID, userID).
			Update("telegram_chat_id", nil).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("telegram_chat_id", chatID)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) SetUserLanguage(ctx context.Context, userID, lang string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("language", lang)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateGrievance assigns the next grievance code and inserts g.
func (s *Service) CreateGrievance(ctx context.Context, g *models.Grievance) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Raw("SELECT nextval(?)", codeSequence).Scan(&seq).Error; err != nil {
			return err
		}
		g.Code = models.FormatGrievanceCode(seq)
		return translate(tx.Create(g).Error)
	})
}

func (s *Service) GetGrievance(ctx context.Context, id string) (*models.Grievance, error) {
	var g models.Grievance
	if err := s.DB.WithContext(ctx).Preload("Submitter").Where("id = ?", id).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// ListGrievances returns matching grievances, newest first.
func (s *Service) ListGrievances(ctx context.Context, q GrievanceQuery) ([]models.Grievance, error) {
	db := s.DB.WithContext(ctx).Model(&models.Grievance{}).Preload("Submitter")
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		db = db.Where("status = ANY(?)", pq.Array(statuses))
	}
	if q.SubmittedBy != "" {
		db = db.Where("submitted_by = ?", q.SubmittedBy)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var out []models.Grievance
	if err := db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateGrievanceStatus applies u and records the change in the status
// history within one transaction.
func (s *Service) UpdateGrievanceStatus(ctx context.Context, u StatusUpdate) (*models.Grievance, *models.GrievanceStatusHistory, error) {
	var (
		g       models.Grievance
		history models.GrievanceStatusHistory
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", u.GrievanceID).First(&g).Error; err != nil {
			return translate(err)
		}

		updates := map[string]interface{}{"status": u.Status}
		if u.ResolutionComments != nil {
			updates["resolution_comments"] = *u.ResolutionComments
		}
		if u.AssignedTo != nil {
			updates["assigned_to"] = *u.AssignedTo
		}
		if err := tx.Model(&models.Grievance{}).Where("id = ?", g.ID).Updates(updates).Error; err != nil {
			return err
		}

		history = models.GrievanceStatusHistory{
			GrievanceID: g.ID,
			OldStatus:   g.Status,
			NewStatus:   u.Status,
			ChangedBy:   u.ChangedBy,
			Comments:    u.ResolutionComments,
			Metadata:    datatypes.JSONMap{"grievance_code": g.Code},
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		g.Status = u.Status
		if u.ResolutionComments != nil {
			g.ResolutionComments = u.ResolutionComments
		}
		if u.AssignedTo != nil {
			g.AssignedTo = u.AssignedTo
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &g, &history, nil
}

func (s *Service) ListStatusHistory(ctx context.Context, grievanceID string) ([]models.GrievanceStatusHistory, error) {
	var out []models.GrievanceStatusHistory
	if err := s.DB.WithContext(ctx).Where("grievance_id = ?", grievanceID).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
