package services

import (
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
)

const previewSize = 3

type PreviewItem struct {
	PosterURL string `json:"poster_url"`
}

// ListSummary is the card shape used on dashboards and profiles.
type ListSummary struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  *string       `json:"description"`
	IsPublic     bool          `json:"is_public"`
	ItemCount    int           `json:"item_count"`
	UpdatedAt    time.Time     `json:"updated_at"`
	PreviewItems []PreviewItem `json:"preview_items"`
}

// ProjectListSummary derives a summary from a list and its assembled entries.
// ItemCount counts every stored entry, resolved or not.
func ProjectListSummary(list *models.List, entryCount int, display []DisplayEntry) ListSummary {
	preview := make([]PreviewItem, 0, previewSize)
	for _, e := range display {
		if len(preview) == previewSize {
			break
		}
		if e.Media.PosterURL == "" {
			continue
		}
		preview = append(preview, PreviewItem{PosterURL: e.Media.PosterURL})
	}

	return ListSummary{
		ID:           list.ID,
		Title:        list.Title,
		Description:  list.Description,
		IsPublic:     list.IsPublic,
		ItemCount:    entryCount,
		UpdatedAt:    list.UpdatedAt,
		PreviewItems: preview,
	}
}

// ProfileCounts never carries nulls: a failed or empty aggregate is 0.
type ProfileCounts struct {
	Followers int64 `json:"followers_count"`
	Following int64 `json:"following_count"`
}

// NewProfileCounts defaults each count to 0 when its query failed.
func NewProfileCounts(followers int64, followersErr error, following int64, followingErr error) ProfileCounts {
	var c ProfileCounts
	if followersErr == nil && followers > 0 {
		c.Followers = followers
	}
	if followingErr == nil && following > 0 {
		c.Following = following
	}
	return c
}
