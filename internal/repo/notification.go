package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ChillLP/traewelling/internal/domain"
)

// NotificationRepo defines the persistence operations for in-app notifications.
// The data payload is stored as jsonb; rendering happens in the service layer.
type NotificationRepo interface {
	// Create inserts a new notification and returns the persisted record.
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// ListPaged returns one page of the user's notifications, newest first,
	// plus the total count.
	ListPaged(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.Notification, int64, error)

	// SetRead marks a notification of the user read or unread.
	// Returns domain.ErrNotFound if the notification does not exist or
	// belongs to another user.
	SetRead(ctx context.Context, userID int64, id uuid.UUID, read bool) error
}

// pgNotificationRepo is the Postgres implementation of NotificationRepo.
type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: marshal data: %w", err)
	}

	const q = `
		INSERT INTO notifications (id, user_id, type, data)
		VALUES (@id, @user_id, @type, @data)
		RETURNING id, user_id, type, data, read_at, created_at`

	args := pgx.NamedArgs{
		"id":      n.ID,
		"user_id": n.UserID,
		"type":    n.Type,
		"data":    data,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanNotification(row)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) ListPaged(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	const countQ = `SELECT count(*) FROM notifications WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, user_id, type, data, read_at, created_at
		FROM notifications
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.NotificationRepo.ListPaged: scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListPaged: rows: %w", err)
	}
	return notifications, total, nil
}

// SetRead scopes by user_id so users cannot toggle each other's notifications.
func (r *pgNotificationRepo) SetRead(ctx context.Context, userID int64, id uuid.UUID, read bool) error {
	const q = `
		UPDATE notifications
		SET read_at = CASE WHEN @read THEN now() ELSE NULL END
		WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID, "read": read})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.SetRead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NotificationRepo.SetRead: %w", domain.ErrNotFound)
	}
	return nil
}

// scanNotification maps a single database row into a domain.Notification.
func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n    domain.Notification
		id   pgtype.UUID
		data []byte
	)
	err := s.Scan(&id, &n.UserID, &n.Type, &data, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotFound
		}
		return domain.Notification{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	if err := json.Unmarshal(data, &n.Data); err != nil {
		return domain.Notification{}, fmt.Errorf("unmarshal data: %w", err)
	}
	return n, nil
}
