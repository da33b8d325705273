// Package postgres implements storage.UserStore on PostgreSQL.
//
// The schema enforces the invariants the user service checks but does not
// make atomic: usernames are unique and a partial unique index admits a
// single ADMIN row. Violations surface as model.ErrUserAlreadyExists and
// model.ErrAdminAlreadyExists.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/storage"
)

// Constraint names from the migrations
const (
	constraintUsername    = "app_users_username_key"
	constraintSingleAdmin = "app_users_single_admin"
)

// poolIface is the subset of pgxpool.Pool used by Storage, satisfied by
// pgxmock in tests.
type poolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds PostgreSQL connection settings
type Config struct {
	// URL is a postgres:// connection string
	URL string

	// MaxConns caps the pool size; 0 keeps the pgxpool default
	MaxConns int32
}

// Storage is a PostgreSQL-backed implementation of storage.UserStore
type Storage struct {
	pool  poolIface
	close func()
}

// New connects to PostgreSQL and verifies the connection
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("POSTGRES_CONFIG_INVALID").Wrap(err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("POSTGRES_CONNECT_FAILED").Wrap(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, oops.Code("POSTGRES_CONNECT_FAILED").With("operation", "ping").Wrap(err)
	}

	return &Storage{pool: pool, close: pool.Close}, nil
}

// NewWithPool creates a Storage over an existing pool (for testing)
func NewWithPool(pool poolIface) *Storage {
	return &Storage{pool: pool, close: func() {}}
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.UserStore = (*Storage)(nil)

const selectUserColumns = `SELECT id, username, password, role, created_at, updated_at FROM app_users`

func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_QUERY_FAILED").With("username", username).Wrap(err)
	}
	return exists, nil
}

func (s *Storage) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	row := s.pool.QueryRow(ctx, selectUserColumns+` WHERE username = $1`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").With("username", username).Wrap(err)
	}
	return user, nil
}

func (s *Storage) ExistsByRole(ctx context.Context, role model.Role) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_users WHERE role = $1)`, string(role),
	).Scan(&exists)
	if err != nil {
		return false, oops.Code("USER_EXISTS_QUERY_FAILED").With("role", string(role)).Wrap(err)
	}
	return exists, nil
}

func (s *Storage) Save(ctx context.Context, user *model.AppUser) (*model.AppUser, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO app_users (id, username, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			password   = EXCLUDED.password,
			role       = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
		RETURNING id, username, password, role, created_at, updated_at
	`,
		string(user.ID),
		user.Username,
		user.Password,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)

	saved, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case constraintUsername:
				return nil, oops.Code("USER_ALREADY_EXISTS").With("username", user.Username).Wrap(model.ErrUserAlreadyExists)
			case constraintSingleAdmin:
				return nil, oops.Code("ADMIN_ALREADY_EXISTS").With("username", user.Username).Wrap(model.ErrAdminAlreadyExists)
			}
		}
		return nil, oops.Code("USER_SAVE_FAILED").
			With("operation", "upsert user").
			With("username", user.Username).
			Wrap(err)
	}
	return saved, nil
}

func scanUser(row pgx.Row) (*model.AppUser, error) {
	var (
		id, username, password, role string
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(&id, &username, &password, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &model.AppUser{
		ID:        model.UserID(id),
		Username:  username,
		Password:  password,
		Role:      model.Role(role),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
