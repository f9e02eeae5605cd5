package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const maxAvatarBytes = 5 << 20

// ObjectUploader stores a blob at path, overwriting, and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

// ProfileHandler handles HTTP requests related to profiles
type ProfileHandler struct {
	profileRepository repositories.ProfileRepository
	socialService     *services.SocialService
	listService       *services.ListService
	timelineService   *services.TimelineService
	sectionService    *services.SectionService
	uploader          ObjectUploader
}

// NewProfileHandler creates a new ProfileHandler. uploader may be nil when no
// storage bucket is configured.
func NewProfileHandler(
	profileRepo repositories.ProfileRepository,
	socialService *services.SocialService,
	listService *services.ListService,
	timelineService *services.TimelineService,
	sectionService *services.SectionService,
	uploader ObjectUploader,
) *ProfileHandler {
	return &ProfileHandler{
		profileRepository: profileRepo,
		socialService:     socialService,
		listService:       listService,
		timelineService:   timelineService,
		sectionService:    sectionService,
		uploader:          uploader,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetMyProfile)
	g.PUT("/profile", h.UpdateMyProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.GET("/users/search", h.SearchProfiles)
	g.GET("/users/:username", h.GetProfile)
}

// ProfileView is a profile with its derived social fields.
type ProfileView struct {
	*models.Profile
	services.ProfileCounts
	FollowStatus  string                 `json:"follow_status,omitempty"`
	TimelineCount int64                  `json:"timeline_count"`
	Lists         []services.ListSummary `json:"lists"`
	Sections      []services.SectionView `json:"sections"`
}

// GetMyProfile returns the caller's profile with counts, all lists and the
// profile sections.
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	profile, err := h.profileRepository.GetProfileByID(ctx, userID)
	if err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, ProfileView{
		Profile:       profile,
		ProfileCounts: h.socialService.Counts(ctx, userID),
		TimelineCount: h.timelineService.Count(ctx, userID),
		Lists:         h.listService.GetUserLists(ctx, userID),
		Sections:      h.sectionService.Sections(ctx, userID),
	})
}

// GetProfile returns a public profile by username. Private profiles hide their
// lists, sections and watch count from viewers who are not accepted followers.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	viewerID, err := requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	profile, err := h.profileRepository.GetProfileByUsername(ctx, strings.ToLower(c.Param("username")))
	if err != nil {
		return toHTTPError(c, err)
	}
	profile.Email = ""

	view := ProfileView{
		Profile:       profile,
		ProfileCounts: h.socialService.Counts(ctx, profile.ID),
		FollowStatus:  h.socialService.FollowStatus(ctx, viewerID, profile.ID),
		Lists:         []services.ListSummary{},
		Sections:      []services.SectionView{},
	}
	if contentVisible(profile, viewerID, view.FollowStatus) {
		view.Lists = h.listService.GetPublicLists(ctx, profile.ID)
		view.Sections = h.sectionService.Sections(ctx, profile.ID)
		view.TimelineCount = h.timelineService.Count(ctx, profile.ID)
	}
	return respond(c, http.StatusOK, view)
}

// UpdateMyProfile updates the caller's profile
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	profile, err := h.profileRepository.GetProfileByID(ctx, userID)
	if err != nil {
		return toHTTPError(c, err)
	}

	if req.Username != "" && !strings.EqualFold(req.Username, profile.Username) {
		username := strings.ToLower(req.Username)
		if _, err := h.profileRepository.GetProfileByUsername(ctx, username); err == nil {
			return echo.NewHTTPError(http.StatusConflict, "Username is taken")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return toHTTPError(c, err)
		}
		profile.Username = username
	}
	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.IsPrivate != nil {
		profile.IsPrivate = *req.IsPrivate
	}

	if err := h.profileRepository.UpdateProfile(ctx, profile); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, profile)
}

// UploadAvatar stores the "avatar" form file at avatars/<user id> and saves
// the resulting URL on the profile.
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if h.uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage is not configured")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing avatar file")
	}
	if file.Size > maxAvatarBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Avatar must be 5MB or smaller")
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Avatar must be an image")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable avatar file")
	}
	defer src.Close()

	ctx := c.Request().Context()
	url, err := h.uploader.Upload(ctx, "avatars/"+userID.String(), contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Avatar upload failed")
	}

	profile, err := h.profileRepository.GetProfileByID(ctx, userID)
	if err != nil {
		return toHTTPError(c, err)
	}
	profile.ProfilePicURL = url
	if err := h.profileRepository.UpdateProfile(ctx, profile); err != nil {
		return toHTTPError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"profile_pic_url": url})
}

// SearchProfiles searches profiles by username or display name
func (h *ProfileHandler) SearchProfiles(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	profiles, err := h.profileRepository.SearchProfiles(c.Request().Context(), query, limit)
	if err != nil {
		return toHTTPError(c, err)
	}
	out := make([]models.ProfileCompact, 0, len(profiles))
	for i := range profiles {
		out = append(out, profiles[i].ToCompact())
	}
	return respond(c, http.StatusOK, out)
}
