package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandks07/docflow/internal/core/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, document_id, department, message, is_read, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, n.ID, n.DocumentID, n.Department, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListUnreadByDepartment(ctx context.Context, department string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, department, message, is_read, created_at
FROM notifications
WHERE department = $1 AND is_read = FALSE
ORDER BY created_at DESC
`, department)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.DocumentID, &n.Department, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}
