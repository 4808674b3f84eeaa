package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grievanceportal/backend/internal/apperr"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/schema"
	"grievanceportal/backend/internal/storage"

	"go.uber.org/zap"
)

// Snapshot is the serialisable form of a pipeline.
type Snapshot struct {
	State State `json:"state"`
	Draft Draft `json:"draft"`
}

func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{State: p.state, Draft: p.draft.clone()}
}

// Restore rebuilds a pipeline from snap, re-resolving the detail schema
// and dropping any stored detail key that is no longer part of it.
func Restore(registry *schema.Registry, inserter Inserter, identity IdentityProvider, snap Snapshot) (*Pipeline, error) {
	if !snap.State.valid() || snap.State.Terminal() {
		return nil, fmt.Errorf("wizard: cannot restore state %q", snap.State)
	}

	d := snap.Draft.clone()
	if d.Category != "" && !registry.HasCategory(d.Category) {
		return nil, fmt.Errorf("wizard: unknown category %q", d.Category)
	}
	if d.SubCategory != "" && !registry.HasSubCategory(d.Category, d.SubCategory) {
		return nil, fmt.Errorf("wizard: unknown sub-category %q", d.SubCategory)
	}

	p := New(registry, inserter, identity)
	p.state = snap.State

	if snap.State == StateCollectingDetails {
		if d.Category == "" || d.SubCategory == "" {
			return nil, errors.New("wizard: details stage without category")
		}
		p.fields = registry.ResolveFieldSchema(d.Category, d.SubCategory)
		kept := make(map[string]string, len(d.Details))
		for _, f := range p.fields {
			if v, ok := d.Details[f.Key]; ok {
				kept[f.Key] = v
			}
		}
		d.Details = kept
	} else {
		d = d.withoutDetails()
	}
	p.draft = d
	return p, nil
}

// DraftStore keeps serialised wizard sessions per user.
type DraftStore interface {
	SaveDraft(ctx context.Context, userID string, data []byte, ttl time.Duration) error
	LoadDraft(ctx context.Context, userID string) ([]byte, error)
	DeleteDraft(ctx context.Context, userID string) error
	AcquireDraftLock(ctx context.Context, userID string, ttl time.Duration) (string, bool, error)
	ReleaseDraftLock(ctx context.Context, userID, token string) error
}

// Sessions loads and stores one pipeline per user between requests.
type Sessions struct {
	store    DraftStore
	registry *schema.Registry
	inserter Inserter
	identity IdentityProvider
	ttl      time.Duration
	lockTTL  time.Duration
	logger   *zap.Logger
}

func NewSessions(store DraftStore, registry *schema.Registry, inserter Inserter, identity IdentityProvider, ttl, lockTTL time.Duration, logger *zap.Logger) *Sessions {
	return &Sessions{
		store:    store,
		registry: registry,
		inserter: inserter,
		identity: identity,
		ttl:      ttl,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// Start replaces any existing session with a fresh pipeline.
func (s *Sessions) Start(ctx context.Context, userID string) (*Pipeline, error) {
	unlock, err := s.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p := New(s.registry, s.inserter, s.identity)
	if err := s.Save(ctx, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// lock takes the user's draft lock. Every change to a stored draft runs
// under it, so a step cannot write back a draft that Submit removed.
func (s *Sessions) lock(ctx context.Context, userID string) (unlock func(), err error) {
	token, ok, err := s.store.AcquireDraftLock(ctx, userID, s.lockTTL)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if !ok {
		return nil, apperr.Conflict("another change to this grievance draft is in progress")
	}
	return func() {
		if err := s.store.ReleaseDraftLock(context.WithoutCancel(ctx), userID, token); err != nil {
			s.logger.Error("failed to release draft lock", zap.String("user_id", userID), zap.Error(err))
		}
	}, nil
}

// Load returns the user's pipeline or a not-found error.
func (s *Sessions) Load(ctx context.Context, userID string) (*Pipeline, error) {
	data, err := s.store.LoadDraft(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("no grievance draft in progress", err)
	}
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, s.discard(ctx, userID, err)
	}
	p, err := Restore(s.registry, s.inserter, s.identity, snap)
	if err != nil {
		return nil, s.discard(ctx, userID, err)
	}
	return p, nil
}

func (s *Sessions) discard(ctx context.Context, userID string, cause error) error {
	s.logger.Warn("discarding unreadable grievance draft", zap.String("user_id", userID), zap.Error(cause))
	if err := s.store.DeleteDraft(ctx, userID); err != nil {
		s.logger.Error("failed to delete grievance draft", zap.String("user_id", userID), zap.Error(err))
	}
	return apperr.NotFound("no grievance draft in progress", cause)
}

// Save stores p, or removes the session once p reached a terminal state.
func (s *Sessions) Save(ctx context.Context, userID string, p *Pipeline) error {
	snap := p.Snapshot()
	if snap.State.Terminal() {
		if err := s.store.DeleteDraft(ctx, userID); err != nil {
			return apperr.Persistence(err)
		}
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.store.SaveDraft(ctx, userID, data, s.ttl); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// Update loads the user's pipeline, applies fn and stores the result
// while holding the draft lock. Nothing is stored when fn fails.
func (s *Sessions) Update(ctx context.Context, userID string, fn func(p *Pipeline) error) (*Pipeline, error) {
	unlock, err := s.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return p, err
	}
	if err := s.Save(ctx, userID, p); err != nil {
		return p, err
	}
	return p, nil
}

// Submit inserts the user's pipeline under the draft lock. The draft is
// removed from the store before the insert, so once the insert succeeds
// there is nothing left to submit again. A failed insert stores it back.
func (s *Sessions) Submit(ctx context.Context, userID string) (*Pipeline, *models.Grievance, error) {
	unlock, err := s.lock(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	p, err := s.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.DeleteDraft(ctx, userID); err != nil {
		return p, nil, apperr.Persistence(err)
	}

	record, err := p.Submit(ctx)
	if err != nil {
		if saveErr := s.Save(context.WithoutCancel(ctx), userID, p); saveErr != nil {
			s.logger.Error("failed to restore grievance draft after failed submit",
				zap.String("user_id", userID), zap.Error(saveErr))
		}
		return p, nil, err
	}
	return p, record, nil
}
