package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/google/uuid"
)

// SectionItemView is one resolved slot of a profile section.
type SectionItemView struct {
	ID    uuid.UUID `json:"id"`
	Rank  int       `json:"rank"`
	Media Media     `json:"media"`
}

// SectionView is a profile section with its items in rank order.
type SectionView struct {
	ID    uuid.UUID         `json:"id"`
	Title string            `json:"title"`
	Type  string            `json:"type"`
	Rank  int               `json:"rank"`
	Items []SectionItemView `json:"items"`
}

// SectionService manages the ranked showcases ("podium") on a profile.
type SectionService struct {
	sections repositories.SectionRepository
	loader   *MediaLoader
	cache    *MediaCache
}

func NewSectionService(sections repositories.SectionRepository, loader *MediaLoader, cache *MediaCache) *SectionService {
	return &SectionService{sections: sections, loader: loader, cache: cache}
}

func (s *SectionService) CreateSection(ctx context.Context, userID uuid.UUID, title, kind string) (*models.ProfileSection, error) {
	if kind == "" {
		kind = models.SectionMixed
	}
	section := &models.ProfileSection{UserID: userID, Title: strings.TrimSpace(title), Type: kind}
	if err := s.sections.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *SectionService) DeleteSection(ctx context.Context, userID, sectionID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, sectionID); err != nil {
		return err
	}
	return s.sections.DeleteSection(ctx, userID, sectionID)
}

// SetItems replaces the section's contents with refs, ranked in the given
// order. Every ref must fit the section type and appear once.
func (s *SectionService) SetItems(ctx context.Context, userID, sectionID uuid.UUID, refs []models.MediaRef) ([]models.SectionItem, error) {
	section, err := s.owned(ctx, userID, sectionID)
	if err != nil {
		return nil, err
	}
	if len(refs) > models.MaxSectionItems {
		return nil, fmt.Errorf("%w: a section holds at most %d items", ErrInvalidInput, models.MaxSectionItems)
	}
	seen := make(map[models.MediaRef]struct{}, len(refs))
	for _, ref := range refs {
		if !section.Accepts(ref.Kind) {
			return nil, fmt.Errorf("%w: a %s section cannot hold a %s", ErrInvalidInput, section.Type, ref.Kind)
		}
		if _, dup := seen[ref]; dup {
			return nil, fmt.Errorf("%w: %s %d listed twice", ErrInvalidInput, ref.Kind, ref.ID)
		}
		seen[ref] = struct{}{}
	}

	for _, ref := range refs {
		if err := s.cache.Ensure(ctx, ref); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("kind", string(ref.Kind)).Int64("tmdb_id", ref.ID).
				Msg("media cache warm failed")
		}
	}
	return s.sections.ReplaceItems(ctx, sectionID, refs)
}

// Sections returns every section of userID with media resolved by a single
// batch load. Unresolved items are dropped and a failed read yields no
// sections.
func (s *SectionService) Sections(ctx context.Context, userID uuid.UUID) []SectionView {
	sections, err := s.sections.GetSectionsByUser(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("profile sections fetch failed")
		return []SectionView{}
	}

	var refs []models.MediaRef
	for i := range sections {
		for j := range sections[i].Items {
			if ref, ok := sections[i].Items[j].Ref(); ok {
				refs = append(refs, ref)
			}
		}
	}
	lookup := s.loader.LoadRefs(ctx, refs)

	out := make([]SectionView, 0, len(sections))
	for i := range sections {
		sec := &sections[i]
		view := SectionView{
			ID:    sec.ID,
			Title: sec.Title,
			Type:  sec.Type,
			Rank:  sec.Rank,
			Items: make([]SectionItemView, 0, len(sec.Items)),
		}
		for j := range sec.Items {
			item := &sec.Items[j]
			ref, ok := item.Ref()
			if !ok {
				metrics.DanglingReferences.WithLabelValues("section_item").Inc()
				continue
			}
			media, ok := lookup.Resolve(ref)
			if !ok {
				metrics.DanglingReferences.WithLabelValues("section_item").Inc()
				continue
			}
			view.Items = append(view.Items, SectionItemView{ID: item.ID, Rank: item.Rank, Media: media})
		}
		out = append(out, view)
	}
	return out
}

func (s *SectionService) owned(ctx context.Context, userID, sectionID uuid.UUID) (*models.ProfileSection, error) {
	section, err := s.sections.GetSectionByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	if section.UserID != userID {
		return nil, ErrForbidden
	}
	return section, nil
}
