package repository

import (
	"context"
	"errors"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

const userColumns = `id, name, email, role, banned, ban_reason, ban_expires, created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, name, email, role string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO "user" (name, email, role)
		 VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		name, email, role,
	)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on the email index
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns a page of users plus the total count for the same search
// filter. An empty search matches everyone; otherwise email is matched
// case-insensitively as a substring.
func (r *UserRepository) List(ctx context.Context, limit, offset int, searchEmail string) ([]*domain.User, int, error) {
	pattern := "%" + searchEmail + "%"

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM "user" WHERE email ILIKE $1`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM "user"
		 WHERE email ILIKE $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE "user"
		 SET banned = $1, ban_reason = $2, updated_at = now()
		 WHERE id = $3`,
		banned, reason, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE "user"
		 SET name = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+userColumns,
		name, id,
	)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) CreateAccount(ctx context.Context, userID uuid.UUID, providerID, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO account (user_id, provider_id, password_hash)
		 VALUES ($1, $2, $3)`,
		userID, providerID, passwordHash,
	)
	return err
}

func (r *UserRepository) GetAccount(ctx context.Context, userID uuid.UUID, providerID string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, provider_id, password_hash, created_at
		 FROM account
		 WHERE user_id = $1 AND provider_id = $2`,
		userID, providerID,
	)

	var a domain.Account
	err := row.Scan(&a.ID, &a.UserID, &a.ProviderID, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.Banned,
		&u.BanReason,
		&u.BanExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
