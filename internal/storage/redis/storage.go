package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/storage"
)

// Storage is a Redis-backed implementation of storage.UserStore.
//
// The username index and the admin slot are claimed with SETNX, so two
// concurrent writers cannot both register the same username or both
// become admin.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.UserStore = (*Storage)(nil)

func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keys.usernameIndex(username)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	id, err := s.client.Get(ctx, s.keys.usernameIndex(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, s.keys.user(model.UserID(id))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Index without a record: a Save that failed halfway
			return nil, nil
		}
		return nil, err
	}

	var user model.AppUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ExistsByRole(ctx context.Context, role model.Role) (bool, error) {
	if role == model.RoleAdmin {
		n, err := s.client.Exists(ctx, s.keys.adminSlot()).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	n, err := s.client.SCard(ctx, s.keys.roleIndex(role)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) Save(ctx context.Context, user *model.AppUser) (*model.AppUser, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	claimedUsername, err := s.claim(ctx, s.keys.usernameIndex(user.Username), user.ID, model.ErrUserAlreadyExists)
	if err != nil {
		return nil, err
	}

	// Keys created by this call, removed again if the write fails
	var created []string
	if claimedUsername {
		created = append(created, s.keys.usernameIndex(user.Username))
	}

	if user.Role == model.RoleAdmin {
		claimedAdmin, err := s.claim(ctx, s.keys.adminSlot(), user.ID, model.ErrAdminAlreadyExists)
		if err != nil {
			s.release(ctx, created)
			return nil, err
		}
		if claimedAdmin {
			created = append(created, s.keys.adminSlot())
		}
	}

	// Record and role indexes in one pipeline
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.user(user.ID), data, 0)
	for _, role := range []model.Role{model.RolePlayer, model.RoleAdmin} {
		if role == user.Role {
			pipe.SAdd(ctx, s.keys.roleIndex(role), string(user.ID))
		} else {
			pipe.SRem(ctx, s.keys.roleIndex(role), string(user.ID))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.release(ctx, created)
		return nil, err
	}

	saved := *user
	return &saved, nil
}

// release deletes claim keys on a failed save. It uses a fresh context so a
// cancelled request still cleans up.
func (s *Storage) release(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	_ = s.client.Del(ctx, keys...).Err()
}

// claim sets key to id unless another ID already holds it. It reports
// whether this call created the key.
func (s *Storage) claim(ctx context.Context, key string, id model.UserID, conflict error) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, string(id), 0).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	holder, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if holder != string(id) {
		return false, conflict
	}
	return false, nil
}
