package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finoteselam-court/court-portal-api/internal/models"
)

var (
	// ErrSessionNotFound means the session expired or was signed out.
	ErrSessionNotFound = errors.New("session not found")
	// ErrResetTokenNotFound means the reset token is unknown, used or expired.
	ErrResetTokenNotFound = errors.New("reset token not found")
)

const (
	sessionPrefix     = "session:"
	userSessionPrefix = "user_sessions:"
	resetTokenPrefix  = "reset_token:"
)

// SessionRepository keeps admin sessions and password reset tokens in Redis.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// Save stores the session until it expires and indexes it under its user.
func (r *SessionRepository) Save(ctx context.Context, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	userKey := userSessionPrefix + session.UserID
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionPrefix+session.ID, payload, ttl)
		pipe.SAdd(ctx, userKey, session.ID)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session %s: %w", session.ID, err)
	}
	return nil
}

// Get loads a live session.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.getJSON(ctx, sessionPrefix+id, &session); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Delete ends one session.
func (r *SessionRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionPrefix+id)
		pipe.SRem(ctx, userSessionPrefix+userID, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// DeleteAllForUser ends every session of a user and returns their ids.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) ([]string, error) {
	userKey := userSessionPrefix + userID
	ids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list sessions for %s: %w", userID, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionPrefix+id)
	}
	keys = append(keys, userKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("redis delete sessions for %s: %w", userID, err)
	}
	return ids, nil
}

// SaveResetToken stores a single-use reset grant.
func (r *SessionRepository) SaveResetToken(ctx context.Context, token string, grant models.PasswordResetToken, ttl time.Duration) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return fmt.Errorf("marshal reset token: %w", err)
	}
	if err := r.client.Set(ctx, resetTokenPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis save reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken atomically reads and removes a reset grant.
func (r *SessionRepository) ConsumeResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	raw, err := r.client.GetDel(ctx, resetTokenPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("redis consume reset token: %w", err)
	}
	var grant models.PasswordResetToken
	if err := json.Unmarshal(raw, &grant); err != nil {
		return nil, fmt.Errorf("unmarshal reset token: %w", err)
	}
	return &grant, nil
}

// Ping reports whether Redis is reachable.
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SessionRepository) getJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return err
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
