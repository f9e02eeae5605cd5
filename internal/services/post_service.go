package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/google/uuid"
)

// PostService handles blog posts and the likes and comments on them.
type PostService struct {
	posts         repositories.PostRepository
	likes         repositories.LikeRepository
	comments      repositories.CommentRepository
	notifications *NotificationService
}

func NewPostService(
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	notifications *NotificationService,
) *PostService {
	return &PostService{posts: posts, likes: likes, comments: comments, notifications: notifications}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, collapses everything that is not a letter or
// digit into single dashes and appends a short random suffix.
func Slugify(title string) string {
	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(base) > 60 {
		base = strings.TrimRight(base[:60], "-")
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, req models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		AuthorID:  authorID.String(),
		Slug:      Slugify(req.Title),
		Title:     strings.TrimSpace(req.Title),
		BannerURL: req.BannerURL,
		Content:   req.Content,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.posts.GetPostBySlug(ctx, slug)
}

func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID, skip, limit int64) ([]models.Post, error) {
	return s.posts.GetPostsByAuthor(ctx, authorID.String(), skip, limit)
}

// DeletePost removes a post written by authorID.
func (s *PostService) DeletePost(ctx context.Context, authorID uuid.UUID, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID.String() {
		return ErrForbidden
	}
	return s.posts.DeletePost(ctx, postID)
}

// LikePost records the like, bumps the counter and notifies the author.
func (s *PostService) LikePost(ctx context.Context, userID uuid.UUID, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: userID}); err != nil {
		return err
	}
	if err := s.posts.IncrementLikesCount(ctx, postID, 1); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", postID).Msg("likes counter update failed")
	}
	s.notifyAuthor(ctx, post, userID, models.NotificationLike)
	return nil
}

// UnlikePost reverses LikePost, including the notification.
func (s *PostService) UnlikePost(ctx context.Context, userID uuid.UUID, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := s.likes.DeleteLike(ctx, postID, userID); err != nil {
		return err
	}
	if err := s.posts.IncrementLikesCount(ctx, postID, -1); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", postID).Msg("likes counter update failed")
	}
	s.retractNotification(ctx, post, userID, models.NotificationLike)
	return nil
}

func (s *PostService) HasLiked(ctx context.Context, userID uuid.UUID, postID string) (bool, error) {
	return s.likes.HasUserLikedPost(ctx, postID, userID)
}

func (s *PostService) AddComment(ctx context.Context, userID uuid.UUID, postID, content string) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{PostID: postID, UserID: userID, Content: strings.TrimSpace(content)}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.IncrementCommentsCount(ctx, postID, 1); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", postID).Msg("comments counter update failed")
	}
	s.notifyAuthor(ctx, post, userID, models.NotificationComment)
	return comment, nil
}

func (s *PostService) GetComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.comments.GetCommentsByPostID(ctx, postID)
}

// DeleteComment removes a comment written by userID.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if err := s.posts.IncrementCommentsCount(ctx, comment.PostID, -1); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", comment.PostID).Msg("comments counter update failed")
	}
	if post, err := s.posts.GetPostByID(ctx, comment.PostID); err == nil {
		s.retractNotification(ctx, post, userID, models.NotificationComment)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Str("post_id", comment.PostID).Msg("post lookup failed")
	}
	return nil
}

func (s *PostService) notifyAuthor(ctx context.Context, post *models.Post, actorID uuid.UUID, kind string) {
	authorID, err := uuid.Parse(post.AuthorID)
	if err != nil {
		return
	}
	postID := post.ID.Hex()
	if err := s.notifications.Create(ctx, authorID, actorID, kind, &postID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", kind).Msg("post notification failed")
	}
}

func (s *PostService) retractNotification(ctx context.Context, post *models.Post, actorID uuid.UUID, kind string) {
	authorID, err := uuid.Parse(post.AuthorID)
	if err != nil {
		return
	}
	postID := post.ID.Hex()
	err = s.notifications.DeleteMatching(ctx, repositories.NotificationMatch{
		RecipientID:  authorID,
		ActorID:      actorID,
		Type:         kind,
		TargetPostID: &postID,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", kind).Msg("post notification cleanup failed")
	}
}
