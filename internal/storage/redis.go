package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func draftKey(userID string) string     { return "draft:" + userID }
func draftLockKey(userID string) string { return "draft_lock:" + userID }
func linkCodeKey(code string) string    { return "tg_link:" + code }

// releaseLockScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SaveDraft stores a serialised wizard session for userID.
func (s *Service) SaveDraft(ctx context.Context, userID string, data []byte, ttl time.Duration) error {
	return s.Redis.Set(ctx, draftKey(userID), data, ttl).Err()
}

func (s *Service) LoadDraft(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.Redis.Get(ctx, draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *Service) DeleteDraft(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, draftKey(userID)).Err()
}

// AcquireDraftLock takes the user's draft lock and returns the token that
// releases it. ok is false when another request holds the lock.
func (s *Service) AcquireDraftLock(ctx context.Context, userID string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.Redis.SetNX(ctx, draftLockKey(userID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseDraftLock frees the lock if it is still owned by token. A lock
// that expired and was taken by someone else is left alone.
func (s *Service) ReleaseDraftLock(ctx context.Context, userID, token string) error {
	return releaseLockScript.Run(ctx, s.Redis, []string{draftLockKey(userID)}, token).Err()
}

func (s *Service) SaveTelegramLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error {
	return s.Redis.Set(ctx, linkCodeKey(code), userID, ttl).Err()
}

// ConsumeTelegramLinkCode returns the user id behind code and deletes it.
func (s *Service) ConsumeTelegramLinkCode(ctx context.Context, code string) (string, error) {
	userID, err := s.Redis.GetDel(ctx, linkCodeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return userID, err
}

// PublishEvent fans event out to every API instance.
func (s *Service) PublishEvent(ctx context.Context, event models.GrievanceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, config.EventsChannel, payload).Err()
}

func (s *Service) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, config.EventsChannel)
}
