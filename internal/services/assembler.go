package services

import (
	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/google/uuid"
)

// DisplayEntry is a list entry joined with its resolved media.
type DisplayEntry struct {
	ID    uuid.UUID `json:"id"`
	Rank  int       `json:"rank"`
	Note  *string   `json:"note"`
	Media Media     `json:"media"`
}

// Assembly is the output of AssembleEntries.
type Assembly struct {
	Entries []DisplayEntry
	// HeaderBackdrop is the first entry's backdrop, nil when the first entry
	// does not resolve or has none.
	HeaderBackdrop *string
}

// AssembleEntries joins entries, which must already be in rank order, against
// lookup. Entries whose media is missing from lookup are dropped; the rest
// keep their input order. Neither argument is modified.
func AssembleEntries(entries []models.ListEntry, lookup MediaLookup) Assembly {
	out := Assembly{Entries: make([]DisplayEntry, 0, len(entries))}

	for i := range entries {
		e := &entries[i]
		ref, ok := e.Ref()
		if !ok {
			metrics.DanglingReferences.WithLabelValues("list_entry").Inc()
			continue
		}
		media, ok := lookup.Resolve(ref)
		if !ok {
			metrics.DanglingReferences.WithLabelValues("list_entry").Inc()
			continue
		}
		if i == 0 && media.BackdropURL != "" {
			backdrop := media.BackdropURL
			out.HeaderBackdrop = &backdrop
		}
		out.Entries = append(out.Entries, DisplayEntry{
			ID:    e.ID,
			Rank:  e.Rank,
			Note:  copyString(e.Note),
			Media: media,
		})
	}
	return out
}

// EntryRefs returns the resolvable media references of entries.
func EntryRefs(entries []models.ListEntry) []models.MediaRef {
	refs := make([]models.MediaRef, 0, len(entries))
	for i := range entries {
		if ref, ok := entries[i].Ref(); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
