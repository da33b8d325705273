package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelson/you-are-the-hero/internal/model"
)

var (
	userColumns = []string{"id", "username", "password", "role", "created_at", "updated_at"}
	createdAt   = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func newMockStorage(t *testing.T) (pgxmock.PgxPoolIface, *Storage) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock, NewWithPool(mock)
}

func TestStorage_ExistsByUsername(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
		wantErr   bool
	}{
		{
			name: "username taken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM app_users WHERE username`).
					WithArgs("jean neige").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "username free",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM app_users WHERE username`).
					WithArgs("jean neige").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM app_users WHERE username`).
					WithArgs("jean neige").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, store := newMockStorage(t)
			tt.setupMock(mock)

			got, err := store.ExistsByUsername(context.Background(), "jean neige")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestStorage_FindByUsername(t *testing.T) {
	t.Run("returns stored user", func(t *testing.T) {
		mock, store := newMockStorage(t)
		mock.ExpectQuery(`SELECT id, username, password, role, created_at, updated_at FROM app_users WHERE username`).
			WithArgs("jean neige").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("u1", "jean neige", "Ygrid", "PLAYER", createdAt, createdAt))

		user, err := store.FindByUsername(context.Background(), "jean neige")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, model.UserID("u1"), user.ID)
		assert.Equal(t, "jean neige", user.Username)
		assert.Equal(t, "Ygrid", user.Password)
		assert.Equal(t, model.RolePlayer, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent user is nil without error", func(t *testing.T) {
		mock, store := newMockStorage(t)
		mock.ExpectQuery(`FROM app_users WHERE username`).
			WithArgs("unknown-username").
			WillReturnError(pgx.ErrNoRows)

		user, err := store.FindByUsername(context.Background(), "unknown-username")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, store := newMockStorage(t)
		mock.ExpectQuery(`FROM app_users WHERE username`).
			WithArgs("jean neige").
			WillReturnError(errors.New("connection refused"))

		_, err := store.FindByUsername(context.Background(), "jean neige")
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_ExistsByRole(t *testing.T) {
	for _, exists := range []bool{true, false} {
		mock, store := newMockStorage(t)
		mock.ExpectQuery(`FROM app_users WHERE role`).
			WithArgs("ADMIN").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))

		got, err := store.ExistsByRole(context.Background(), model.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, exists, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestStorage_Save(t *testing.T) {
	user := &model.AppUser{
		ID:        "u1",
		Username:  "jean neige",
		Password:  "Ygrid",
		Role:      model.RoleAdmin,
		CreatedAt: createdAt,
		UpdatedAt: createdAt.Add(time.Hour),
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "upsert returns persisted row",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO app_users`).
					WithArgs("u1", "jean neige", "Ygrid", "ADMIN", user.CreatedAt, user.UpdatedAt).
					WillReturnRows(pgxmock.NewRows(userColumns).
						AddRow("u1", "jean neige", "Ygrid", "ADMIN", user.CreatedAt, user.UpdatedAt))
			},
		},
		{
			name: "duplicate username",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO app_users`).
					WithArgs("u1", "jean neige", "Ygrid", "ADMIN", user.CreatedAt, user.UpdatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintUsername})
			},
			wantErr: model.ErrUserAlreadyExists,
		},
		{
			name: "second admin",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO app_users`).
					WithArgs("u1", "jean neige", "Ygrid", "ADMIN", user.CreatedAt, user.UpdatedAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintSingleAdmin})
			},
			wantErr: model.ErrAdminAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, store := newMockStorage(t)
			tt.setupMock(mock)

			saved, err := store.Save(context.Background(), user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, saved)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user, saved)
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestStorage_SaveWrapsOtherErrors(t *testing.T) {
	mock, store := newMockStorage(t)
	mock.ExpectQuery(`INSERT INTO app_users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "app_users_role_check"})

	_, err := store.Save(context.Background(), &model.AppUser{ID: "u1", Username: "x", Role: "ROOT"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrUserAlreadyExists)
	assert.NotErrorIs(t, err, model.ErrAdminAlreadyExists)

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
