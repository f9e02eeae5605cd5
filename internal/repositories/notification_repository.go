package repositories

import (
	"context"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationMatch selects notifications for DeleteMatching. A nil
// TargetPostID matches rows without a target post.
type NotificationMatch struct {
	RecipientID  uuid.UUID
	ActorID      uuid.UUID
	Type         string
	TargetPostID *string
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetActivityByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	DeleteNotification(ctx context.Context, recipientID, notificationID uuid.UUID) error
	DeleteMatching(ctx context.Context, match NotificationMatch) error
	ConvertFollowRequest(ctx context.Context, recipientID, actorID uuid.UUID, at time.Time) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetActivityByRecipient returns activity notifications newest first with the
// actor preloaded. follow_request rows are left out: pending requests are read
// from the followers table instead.
func (r *postgresNotificationRepository) GetActivityByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("recipient_id = ? AND type <> ?", recipientID, models.NotificationFollowRequest).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadCount counts unread activity notifications; follow_request rows
// are excluded like in GetActivityByRecipient.
func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false AND type <> ?", recipientID, models.NotificationFollowRequest).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) DeleteNotification(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) DeleteMatching(ctx context.Context, match NotificationMatch) error {
	q := r.db.WithContext(ctx).
		Where("recipient_id = ? AND actor_id = ? AND type = ?", match.RecipientID, match.ActorID, match.Type)
	if match.TargetPostID != nil {
		q = q.Where("target_post_id = ?", *match.TargetPostID)
	} else {
		q = q.Where("target_post_id IS NULL")
	}
	return q.Delete(&models.Notification{}).Error
}

// ConvertFollowRequest turns an approved request's notification into an
// unread new_follower notification stamped at.
func (r *postgresNotificationRepository) ConvertFollowRequest(ctx context.Context, recipientID, actorID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND actor_id = ? AND type = ?", recipientID, actorID, models.NotificationFollowRequest).
		Updates(map[string]interface{}{
			"type":       models.NotificationNewFollower,
			"created_at": at,
			"is_read":    false,
		}).Error
}
