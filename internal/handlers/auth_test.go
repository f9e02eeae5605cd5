package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/deeperweave/backend/internal/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type tokenResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Token string `json:"token"`
	} `json:"data"`
}

type stubVerifier struct {
	token *auth.Token
	err   error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return s.token, s.err
}

func TestSignupThenSignIn(t *testing.T) {
	repo := newMemProfileRepo()
	e := newTestEcho()
	NewAuthHandler(repo, nil, testSecret).RegisterAuthRoutes(e.Group("/auth"))

	rec := doRequest(e, http.MethodPost, "/auth/signup",
		`{"username":"Ripley","display_name":"Ellen Ripley","email":"ripley@nostromo.io","password":"xenomorph"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var signup tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	assert.True(t, signup.Success)
	claims, err := middleware.ParseJWT(testSecret, signup.Data.Token)
	require.NoError(t, err)

	stored, err := repo.GetProfileByEmail(context.Background(), "ripley@nostromo.io")
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.UserID)
	assert.Equal(t, "ripley", stored.Username)
	assert.NotEqual(t, "xenomorph", stored.Password)

	rec = doRequest(e, http.MethodPost, "/auth/signin", `{"email":"ripley@nostromo.io","password":"xenomorph"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPost, "/auth/signin", `{"email":"ripley@nostromo.io","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPost, "/auth/signup",
		`{"username":"other","display_name":"Other","email":"ripley@nostromo.io","password":"password1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignup_ValidationError(t *testing.T) {
	e := newTestEcho()
	NewAuthHandler(newMemProfileRepo(), nil, testSecret).RegisterAuthRoutes(e.Group("/auth"))

	rec := doRequest(e, http.MethodPost, "/auth/signup", `{"username":"x","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFirebaseLogin_CreatesAndLinksProfile(t *testing.T) {
	repo := newMemProfileRepo()
	verifier := stubVerifier{token: &auth.Token{
		UID:    "fb-123",
		Claims: map[string]interface{}{"email": "Dana@Example.com", "name": "Dana"},
	}}
	e := newTestEcho()
	NewAuthHandler(repo, verifier, testSecret).RegisterAuthRoutes(e.Group("/auth"))

	rec := doRequest(e, http.MethodPost, "/auth/firebase-login", `{"idToken":"anything"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	profile, err := repo.GetProfileByFirebaseUID(context.Background(), "fb-123")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", profile.Email)
	assert.Equal(t, "Dana", profile.DisplayName)
	assert.True(t, len(profile.Username) > len("dana"))

	// A second login reuses the same profile.
	rec = doRequest(e, http.MethodPost, "/auth/firebase-login", `{"idToken":"anything"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, repo.profiles, 1)
}

func TestFirebaseLogin_Rejected(t *testing.T) {
	e := newTestEcho()
	NewAuthHandler(newMemProfileRepo(), stubVerifier{err: errors.New("expired")}, testSecret).
		RegisterAuthRoutes(e.Group("/auth"))

	rec := doRequest(e, http.MethodPost, "/auth/firebase-login", `{"idToken":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	e = newTestEcho()
	NewAuthHandler(newMemProfileRepo(), nil, testSecret).RegisterAuthRoutes(e.Group("/auth"))
	rec = doRequest(e, http.MethodPost, "/auth/firebase-login", `{"idToken":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
