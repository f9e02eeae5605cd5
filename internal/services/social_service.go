package services

import (
	"context"
	"errors"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SocialService manages the follow graph and its notifications.
type SocialService struct {
	profiles      repositories.ProfileRepository
	follows       repositories.FollowRepository
	notifications *NotificationService
}

func NewSocialService(profiles repositories.ProfileRepository, follows repositories.FollowRepository, notifications *NotificationService) *SocialService {
	return &SocialService{profiles: profiles, follows: follows, notifications: notifications}
}

// Follow creates the edge from viewer to target and returns its status:
// pending for private targets, accepted otherwise.
func (s *SocialService) Follow(ctx context.Context, viewerID, targetID uuid.UUID) (string, error) {
	if viewerID == targetID {
		return "", ErrCannotFollowSelf
	}

	target, err := s.profiles.GetProfileByID(ctx, targetID)
	if err != nil {
		return "", err
	}

	existing, err := s.follows.GetFollow(ctx, viewerID, targetID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return existing.Status, ErrAlreadyFollowing
	}

	status, kind := models.FollowAccepted, models.NotificationNewFollower
	if target.IsPrivate {
		status, kind = models.FollowPending, models.NotificationFollowRequest
	}

	if err := s.follows.UpsertFollow(ctx, &models.Follow{
		FollowerID:  viewerID,
		FollowingID: targetID,
		Status:      status,
	}); err != nil {
		return "", err
	}

	if err := s.notifications.Create(ctx, targetID, viewerID, kind, nil); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", kind).Msg("follow notification failed")
	}
	return status, nil
}

// Unfollow removes the edge along with any follow notification it produced.
func (s *SocialService) Unfollow(ctx context.Context, viewerID, targetID uuid.UUID) error {
	if err := s.follows.DeleteFollow(ctx, viewerID, targetID); err != nil {
		return err
	}
	for _, kind := range []string{models.NotificationNewFollower, models.NotificationFollowRequest} {
		err := s.notifications.DeleteMatching(ctx, repositories.NotificationMatch{
			RecipientID: targetID,
			ActorID:     viewerID,
			Type:        kind,
		})
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("type", kind).Msg("follow notification cleanup failed")
		}
	}
	return nil
}

// ApproveRequest accepts a pending follow from requester to owner and turns
// the request notification into a fresh, unread new_follower one.
func (s *SocialService) ApproveRequest(ctx context.Context, ownerID, requesterID uuid.UUID) error {
	follow, err := s.follows.GetFollow(ctx, requesterID, ownerID)
	if err != nil {
		return err
	}
	if follow.Status != models.FollowPending {
		return ErrNotFound
	}
	if err := s.follows.AcceptFollow(ctx, requesterID, ownerID); err != nil {
		return err
	}
	if err := s.notifications.ConvertFollowRequest(ctx, ownerID, requesterID, time.Now()); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("follow request notification convert failed")
	}
	return nil
}

// DenyRequest drops a pending follow and its request notification.
func (s *SocialService) DenyRequest(ctx context.Context, ownerID, requesterID uuid.UUID) error {
	follow, err := s.follows.GetFollow(ctx, requesterID, ownerID)
	if err != nil {
		return err
	}
	if follow.Status != models.FollowPending {
		return ErrNotFound
	}
	if err := s.follows.DeleteFollow(ctx, requesterID, ownerID); err != nil {
		return err
	}
	err = s.notifications.DeleteMatching(ctx, repositories.NotificationMatch{
		RecipientID: ownerID,
		ActorID:     requesterID,
		Type:        models.NotificationFollowRequest,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("follow request notification cleanup failed")
	}
	return nil
}

// FollowStatus reports pending, accepted or not_following.
func (s *SocialService) FollowStatus(ctx context.Context, viewerID, targetID uuid.UUID) string {
	if viewerID == targetID {
		return models.FollowNone
	}
	follow, err := s.follows.GetFollow(ctx, viewerID, targetID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("follow status lookup failed")
		}
		return models.FollowNone
	}
	return follow.Status
}

// Counts runs both aggregates concurrently. Failures count as 0.
func (s *SocialService) Counts(ctx context.Context, userID uuid.UUID) ProfileCounts {
	var (
		followers, following       int64
		followersErr, followingErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		followers, followersErr = s.follows.GetFollowersCount(ctx, userID)
		return nil
	})
	g.Go(func() error {
		following, followingErr = s.follows.GetFollowingCount(ctx, userID)
		return nil
	})
	_ = g.Wait()

	if followersErr != nil || followingErr != nil {
		logging.Ctx(ctx).Warn().
			AnErr("followers_err", followersErr).
			AnErr("following_err", followingErr).
			Msg("profile count query failed")
	}
	return NewProfileCounts(followers, followersErr, following, followingErr)
}

func (s *SocialService) Followers(ctx context.Context, userID uuid.UUID) ([]models.ProfileCompact, error) {
	profiles, err := s.follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compact(profiles), nil
}

func (s *SocialService) Following(ctx context.Context, userID uuid.UUID) ([]models.ProfileCompact, error) {
	profiles, err := s.follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return compact(profiles), nil
}

func compact(profiles []models.Profile) []models.ProfileCompact {
	out := make([]models.ProfileCompact, 0, len(profiles))
	for i := range profiles {
		out = append(out, profiles[i].ToCompact())
	}
	return out
}
