package repositories

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimelineRepository defines the interface for watch log operations
type TimelineRepository interface {
	CreateEntry(ctx context.Context, entry *models.TimelineEntry) error
	GetEntryByID(ctx context.Context, id uuid.UUID) (*models.TimelineEntry, error)
	DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error
	GetEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.TimelineEntry, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	HasWatched(ctx context.Context, userID uuid.UUID, ref models.MediaRef) (bool, error)
}

// PostgresTimelineRepository implements TimelineRepository for PostgreSQL
type PostgresTimelineRepository struct {
	db *gorm.DB
}

// NewPostgresTimelineRepository creates a new PostgresTimelineRepository
func NewPostgresTimelineRepository(db *gorm.DB) *PostgresTimelineRepository {
	return &PostgresTimelineRepository{db: db}
}

func (r *PostgresTimelineRepository) CreateEntry(ctx context.Context, entry *models.TimelineEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresTimelineRepository) GetEntryByID(ctx context.Context, id uuid.UUID) (*models.TimelineEntry, error) {
	var entry models.TimelineEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *PostgresTimelineRepository) DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.TimelineEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetEntriesByUser returns the watch log newest viewing first; entries logged
// for the same day keep the order they were logged in, newest first.
func (r *PostgresTimelineRepository) GetEntriesByUser(ctx context.Context, userID uuid.UUID) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_on DESC").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *PostgresTimelineRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TimelineEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresTimelineRepository) HasWatched(ctx context.Context, userID uuid.UUID, ref models.MediaRef) (bool, error) {
	column := "movie_id"
	if ref.Kind == models.MediaSeries {
		column = "series_id"
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TimelineEntry{}).
		Where("user_id = ? AND "+column+" = ?", userID, ref.ID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}
