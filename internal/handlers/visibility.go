package handlers

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/google/uuid"
)

// contentVisible reports whether viewerID may see the lists, timeline and
// sections of profile. Private profiles show them only to their owner and
// accepted followers.
func contentVisible(profile *models.Profile, viewerID uuid.UUID, followStatus string) bool {
	return !profile.IsPrivate || viewerID == profile.ID || followStatus == models.FollowAccepted
}

// profileGate resolves contentVisible for handlers that only have an owner id.
type profileGate struct {
	profiles repositories.ProfileRepository
	social   *services.SocialService
}

func (g profileGate) visible(ctx context.Context, viewerID, ownerID uuid.UUID) (bool, error) {
	profile, err := g.profiles.GetProfileByID(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if viewerID == ownerID || !profile.IsPrivate {
		return true, nil
	}
	return contentVisible(profile, viewerID, g.social.FollowStatus(ctx, viewerID, ownerID)), nil
}
