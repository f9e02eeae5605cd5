package repositories

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectionRepository defines the interface for ranked profile sections
type SectionRepository interface {
	CreateSection(ctx context.Context, section *models.ProfileSection) error
	GetSectionByID(ctx context.Context, id uuid.UUID) (*models.ProfileSection, error)
	GetSectionsByUser(ctx context.Context, userID uuid.UUID) ([]models.ProfileSection, error)
	DeleteSection(ctx context.Context, ownerID, id uuid.UUID) error
	ReplaceItems(ctx context.Context, sectionID uuid.UUID, refs []models.MediaRef) ([]models.SectionItem, error)
}

// PostgresSectionRepository implements SectionRepository for PostgreSQL
type PostgresSectionRepository struct {
	db *gorm.DB
}

// NewPostgresSectionRepository creates a new PostgresSectionRepository
func NewPostgresSectionRepository(db *gorm.DB) *PostgresSectionRepository {
	return &PostgresSectionRepository{db: db}
}

// CreateSection places section below the user's existing sections. The
// owner's profile row is locked so two concurrent creates cannot share a rank.
func (r *PostgresSectionRepository) CreateSection(ctx context.Context, section *models.ProfileSection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.Profile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").
			First(&owner, "id = ?", section.UserID).Error; err != nil {
			return translate(err)
		}
		var maxRank int
		if err := tx.Model(&models.ProfileSection{}).
			Where("user_id = ?", section.UserID).
			Select("COALESCE(MAX(rank), 0)").
			Scan(&maxRank).Error; err != nil {
			return err
		}
		section.Rank = maxRank + 1
		return tx.Omit("Items").Create(section).Error
	})
}

func (r *PostgresSectionRepository) GetSectionByID(ctx context.Context, id uuid.UUID) (*models.ProfileSection, error) {
	var section models.ProfileSection
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &section, nil
}

// GetSectionsByUser returns sections in rank order with their items preloaded
// in rank order.
func (r *PostgresSectionRepository) GetSectionsByUser(ctx context.Context, userID uuid.UUID) ([]models.ProfileSection, error) {
	var sections []models.ProfileSection
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Where("user_id = ?", userID).
		Order("rank ASC").
		Find(&sections).Error
	return sections, err
}

func (r *PostgresSectionRepository) DeleteSection(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.ProfileSection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceItems swaps the section's contents for refs, ranked 1..n in order.
func (r *PostgresSectionRepository) ReplaceItems(ctx context.Context, sectionID uuid.UUID, refs []models.MediaRef) ([]models.SectionItem, error) {
	items := make([]models.SectionItem, 0, len(refs))
	for i, ref := range refs {
		movieID, seriesID := ref.Columns()
		items = append(items, models.SectionItem{
			SectionID: sectionID,
			Rank:      i + 1,
			MovieID:   movieID,
			SeriesID:  seriesID,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", sectionID).Delete(&models.SectionItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
