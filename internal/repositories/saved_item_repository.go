package repositories

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedItemRepository defines the interface for saved item operations
type SavedItemRepository interface {
	SaveItem(ctx context.Context, item *models.SavedItem) error
	UnsaveItem(ctx context.Context, userID uuid.UUID, ref models.MediaRef) error
	GetSavedItemsByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error)
}

// PostgresSavedItemRepository implements SavedItemRepository
type PostgresSavedItemRepository struct {
	db *gorm.DB
}

// NewPostgresSavedItemRepository creates a new PostgresSavedItemRepository
func NewPostgresSavedItemRepository(db *gorm.DB) *PostgresSavedItemRepository {
	return &PostgresSavedItemRepository{db: db}
}

// SaveItem is idempotent: saving the same media twice keeps the first row.
func (r *PostgresSavedItemRepository) SaveItem(ctx context.Context, item *models.SavedItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

func (r *PostgresSavedItemRepository) UnsaveItem(ctx context.Context, userID uuid.UUID, ref models.MediaRef) error {
	column := "movie_id"
	if ref.Kind == models.MediaSeries {
		column = "series_id"
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, ref.ID).
		Delete(&models.SavedItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSavedItemRepository) GetSavedItemsByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedItem, error) {
	var items []models.SavedItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}
