package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	profileRepository repositories.ProfileRepository
	firebaseAuth      IDTokenVerifier
	jwtSecret         string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(profileRepo repositories.ProfileRepository, firebaseAuth IDTokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		profileRepository: profileRepo,
		firebaseAuth:      firebaseAuth,
		jwtSecret:         jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.profileRepository.GetProfileByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}
	if _, err := h.profileRepository.GetProfileByUsername(ctx, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username is taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	profile := &models.Profile{
		Username:    strings.ToLower(req.Username),
		DisplayName: req.DisplayName,
		Email:       strings.ToLower(req.Email),
		Password:    string(hashedPassword),
	}
	if err := h.profileRepository.CreateProfile(ctx, profile); err != nil {
		return toHTTPError(c, err)
	}

	token, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}
	return respond(c, http.StatusCreated, echo.Map{"token": token, "profile": profile})
}

// SignIn handles local authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profileRepository.GetProfileByEmail(c.Request().Context(), strings.ToLower(req.Email))
	if err != nil || profile.Password == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return respond(c, http.StatusOK, echo.Map{"token": token})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT. Unknown
// users are matched by email or created.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email")
	}

	profile, err := h.resolveFirebaseProfile(ctx, token.UID, strings.ToLower(email), name)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("firebase_uid", token.UID).Msg("firebase login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	localJWT, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}
	return respond(c, http.StatusOK, echo.Map{"token": localJWT})
}

func (h *AuthHandler) resolveFirebaseProfile(ctx context.Context, uid, email, name string) (*models.Profile, error) {
	profile, err := h.profileRepository.GetProfileByFirebaseUID(ctx, uid)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	profile, err = h.profileRepository.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		profile.FirebaseUID = &uid
		if err := h.profileRepository.UpdateProfile(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	profile = &models.Profile{
		Username:    usernameFromEmail(email),
		DisplayName: name,
		Email:       email,
		FirebaseUID: &uid,
	}
	if err := h.profileRepository.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

var nonUsername = regexp.MustCompile(`[^a-z0-9]`)

// usernameFromEmail derives a unique-enough handle from the email local part.
func usernameFromEmail(email string) string {
	local := nonUsername.ReplaceAllString(strings.SplitN(email, "@", 2)[0], "")
	if len(local) > 20 {
		local = local[:20]
	}
	return local + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// generateJWT generates a JWT token for a given profile
func (h *AuthHandler) generateJWT(profile *models.Profile) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: profile.ID.String(),
		Email:  profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
