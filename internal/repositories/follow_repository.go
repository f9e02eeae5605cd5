package repositories

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	UpsertFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	GetFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	AcceptFollow(ctx context.Context, followerID, followingID uuid.UUID) error
	GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.FollowRequestWithProfile, error)
	GetPendingCount(ctx context.Context, userID uuid.UUID) (int64, error)
	GetFollowers(ctx context.Context, userID uuid.UUID) ([]models.Profile, error)
	GetFollowing(ctx context.Context, userID uuid.UUID) ([]models.Profile, error)
	GetFollowersCount(ctx context.Context, userID uuid.UUID) (int64, error)
	GetFollowingCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// UpsertFollow inserts the edge or overwrites the status of an existing one.
func (r *PostgresFollowRepository) UpsertFollow(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(follow).Error
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) GetFollow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		return nil, translate(err)
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) AcceptFollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?", followerID, followingID, models.FollowPending).
		Update("status", models.FollowAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPendingRequests returns pending follows directed at userID with the
// requester's profile preloaded.
func (r *PostgresFollowRepository) GetPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.FollowRequestWithProfile, error) {
	var requests []models.FollowRequestWithProfile
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("following_id = ? AND status = ?", userID, models.FollowPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *PostgresFollowRepository) GetPendingCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowPending).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).Where("id IN (?)",
		r.db.Table("followers").Select("follower_id").Where("following_id = ? AND status = ?", userID, models.FollowAccepted),
	).Find(&profiles).Error
	return profiles, err
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uuid.UUID) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).Where("id IN (?)",
		r.db.Table("followers").Select("following_id").Where("follower_id = ? AND status = ?", userID, models.FollowAccepted),
	).Find(&profiles).Error
	return profiles, err
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowAccepted).
		Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Count(&count).Error
	return count, err
}
