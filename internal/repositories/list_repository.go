package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListRepository defines the interface for list and list entry operations
type ListRepository interface {
	CreateList(ctx context.Context, list *models.List) error
	GetListByID(ctx context.Context, id uuid.UUID) (*models.List, error)
	DeleteList(ctx context.Context, ownerID, listID uuid.UUID) error
	GetListsByUser(ctx context.Context, userID uuid.UUID, publicOnly bool) ([]models.List, error)
	GetEntries(ctx context.Context, listID uuid.UUID) ([]models.ListEntry, error)
	AddEntry(ctx context.Context, entry *models.ListEntry) error
	DeleteEntry(ctx context.Context, listID, entryID uuid.UUID) error
	UpdateEntryNote(ctx context.Context, listID, entryID uuid.UUID, note *string) error
	ReorderEntries(ctx context.Context, listID uuid.UUID, entryIDs []uuid.UUID) error
}

// PostgresListRepository implements ListRepository for PostgreSQL
type PostgresListRepository struct {
	db *gorm.DB
}

// NewPostgresListRepository creates a new PostgresListRepository
func NewPostgresListRepository(db *gorm.DB) *PostgresListRepository {
	return &PostgresListRepository{db: db}
}

func (r *PostgresListRepository) CreateList(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *PostgresListRepository) GetListByID(ctx context.Context, id uuid.UUID) (*models.List, error) {
	var list models.List
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &list, nil
}

// DeleteList removes a list owned by ownerID; entries go with it via the
// ON DELETE CASCADE constraint.
func (r *PostgresListRepository) DeleteList(ctx context.Context, ownerID, listID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", listID, ownerID).Delete(&models.List{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetListsByUser returns the user's lists, most recently updated first, with
// entries preloaded in rank order.
func (r *PostgresListRepository) GetListsByUser(ctx context.Context, userID uuid.UUID, publicOnly bool) ([]models.List, error) {
	var lists []models.List
	q := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Where("user_id = ?", userID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	err := q.Order("updated_at DESC").Find(&lists).Error
	return lists, err
}

func (r *PostgresListRepository) GetEntries(ctx context.Context, listID uuid.UUID) ([]models.ListEntry, error) {
	var entries []models.ListEntry
	err := r.db.WithContext(ctx).Where("list_id = ?", listID).Order("rank ASC").Find(&entries).Error
	return entries, err
}

// AddEntry appends entry after the current highest rank and bumps the list's
// updated_at, in one transaction. The list row is locked so concurrent appends
// serialize; the (list_id, rank) unique index rejects anything that slips by.
func (r *PostgresListRepository) AddEntry(ctx context.Context, entry *models.ListEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockList(tx, entry.ListID); err != nil {
			return err
		}
		var maxRank int
		if err := tx.Model(&models.ListEntry{}).
			Where("list_id = ?", entry.ListID).
			Select("COALESCE(MAX(rank), 0)").
			Scan(&maxRank).Error; err != nil {
			return err
		}
		entry.Rank = maxRank + 1
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return touch(tx, entry.ListID)
	})
}

func (r *PostgresListRepository) DeleteEntry(ctx context.Context, listID, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND list_id = ?", entryID, listID).Delete(&models.ListEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touch(tx, listID)
	})
}

func (r *PostgresListRepository) UpdateEntryNote(ctx context.Context, listID, entryID uuid.UUID, note *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ListEntry{}).
			Where("id = ? AND list_id = ?", entryID, listID).
			Update("note", note)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touch(tx, listID)
	})
}

// ReorderEntries rewrites ranks to 1..n following entryIDs, which must name
// every entry of the list exactly once.
func (r *PostgresListRepository) ReorderEntries(ctx context.Context, listID uuid.UUID, entryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockList(tx, listID); err != nil {
			return err
		}
		var current []uuid.UUID
		if err := tx.Model(&models.ListEntry{}).Where("list_id = ?", listID).Pluck("id", &current).Error; err != nil {
			return err
		}
		if err := CheckPermutation(current, entryIDs); err != nil {
			return err
		}

		// Park every rank below zero first so the unique index never sees
		// two rows on the same positive rank mid-rewrite.
		if err := tx.Model(&models.ListEntry{}).
			Where("list_id = ?", listID).
			Update("rank", gorm.Expr("-rank")).Error; err != nil {
			return err
		}
		for i, id := range entryIDs {
			res := tx.Model(&models.ListEntry{}).
				Where("id = ? AND list_id = ?", id, listID).
				Update("rank", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("entry %s: %w", id, ErrNotFound)
			}
		}
		return touch(tx, listID)
	})
}

// CheckPermutation reports ErrInvalidOrder unless requested holds exactly the
// ids in current, each once.
func CheckPermutation(current, requested []uuid.UUID) error {
	if len(current) != len(requested) {
		return ErrInvalidOrder
	}
	remaining := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		remaining[id] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := remaining[id]; !ok {
			return ErrInvalidOrder
		}
		delete(remaining, id)
	}
	return nil
}

func lockList(tx *gorm.DB, listID uuid.UUID) error {
	var list models.List
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&list, "id = ?", listID).Error
	return translate(err)
}

func touch(tx *gorm.DB, listID uuid.UUID) error {
	return tx.Model(&models.List{}).Where("id = ?", listID).Update("updated_at", time.Now()).Error
}
