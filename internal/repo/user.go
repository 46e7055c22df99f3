package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// UserRepo defines the persistence operations for user accounts and the
// follower graph behind the "followers" tag visibility level.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns domain.ErrConflict if the username is taken.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a single user by primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// Follow records that follower follows followee. Idempotent.
	Follow(ctx context.Context, followerID, followeeID int64) error

	// IsFollowing reports whether follower follows followee.
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (username, display_name, role)
		VALUES (@username, @display_name, @role)
		RETURNING id, username, display_name, role, created_at`

	args := pgx.NamedArgs{
		"username":     user.Username,
		"display_name": user.DisplayName,
		"role":         string(user.Role),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
		SELECT id, username, display_name, role, created_at
		FROM users
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// Follow is idempotent via ON CONFLICT DO NOTHING.
func (r *pgUserRepo) Follow(ctx context.Context, followerID, followeeID int64) error {
	const q = `
		INSERT INTO user_follows (follower_id, followee_id)
		VALUES (@follower_id, @followee_id)
		ON CONFLICT (follower_id, followee_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"follower_id": followerID, "followee_id": followeeID})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Follow: %w", err)
	}
	return nil
}

func (r *pgUserRepo) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM user_follows
			WHERE follower_id = @follower_id AND followee_id = @followee_id
		)`

	var following bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"follower_id": followerID, "followee_id": followeeID}).Scan(&following)
	if err != nil {
		return false, fmt.Errorf("repo.UserRepo.IsFollowing: %w", err)
	}
	return following, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := s.Scan(&u.ID, &u.Username, &u.DisplayName, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
