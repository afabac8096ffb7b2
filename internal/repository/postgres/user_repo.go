package postgres

import (
	"context"
	"errors"

	"github.com/finflow-app/finflow-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, firstname, lastname, email, password_hash, google_id, avatar_url, provider, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user
func (r *UserRepository) Create(user *domain.User) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (firstname, lastname, email, password_hash, google_id, avatar_url, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.GoogleID, user.AvatarURL, string(user.Provider))

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, pgUUID(id))
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email)
}

// GetByGoogleID retrieves a user by their Google subject ID
func (r *UserRepository) GetByGoogleID(googleID string) (*domain.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

// LinkGoogleID attaches a Google subject ID to an existing user
func (r *UserRepository) LinkGoogleID(id uuid.UUID, googleID string) (*domain.User, error) {
	return r.getOne(`
		UPDATE users SET google_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, pgUUID(id), googleID)
}

func (r *UserRepository) getOne(query string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                    domain.User
		id                   pgtype.UUID
		passwordHash         pgtype.Text
		googleID             pgtype.Text
		avatarURL            pgtype.Text
		provider             string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &u.FirstName, &u.LastName, &u.Email, &passwordHash, &googleID, &avatarURL, &provider, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.ID = uuid.UUID(id.Bytes)
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		u.GoogleID = &googleID.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	u.Provider = domain.AuthProvider(provider)
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}
