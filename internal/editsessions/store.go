package editsessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
	"github.com/angelmondragon/storefront-configurator/pkg/redis"
)

// Store persists sessions. Missing and expired sessions are both reported as
// SESSION_EXPIRED.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a store on top of the shared redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Create stores a new session. Ids are never reused.
func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	created, err := s.client.SetNX(ctx, s.client.EditSessionKey(session.ID.String()), payload, s.ttl)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	if !created {
		return pkgerrors.New(pkgerrors.CodeConflict, "session already exists")
	}
	return nil
}

// Get loads a live session.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, s.client.EditSessionKey(id.String()))
	if err != nil {
		if redis.IsNil(err) {
			return nil, expiredError(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &session, nil
}

// Save overwrites a live session and refreshes its TTL. A session that expired in the
// meantime is not recreated.
func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	updated, err := s.client.SetXX(ctx, s.client.EditSessionKey(session.ID.String()), payload, s.ttl)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}
	if !updated {
		return expiredError(session.ID)
	}
	return nil
}

// Delete discards a session.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.client.Del(ctx, s.client.EditSessionKey(id.String()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	if removed == 0 {
		return expiredError(id)
	}
	return nil
}

func expiredError(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeSessionExpired, fmt.Sprintf("edit session %s not found or expired", id))
}
