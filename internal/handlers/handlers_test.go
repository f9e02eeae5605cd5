package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/validators"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// asUser injects claims the way the auth middleware does.
func asUser(id uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user", &models.JwtCustomClaims{UserID: id.String()})
			return next(c)
		}
	}
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type memProfileRepo struct {
	repositories.ProfileRepository

	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
}

func (r *memProfileRepo) CreateProfile(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *memProfileRepo) find(match func(*models.Profile) bool) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memProfileRepo) GetProfileByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	return r.find(func(p *models.Profile) bool { return p.ID == id })
}

func (r *memProfileRepo) GetProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	return r.find(func(p *models.Profile) bool { return p.Email == email })
}

func (r *memProfileRepo) GetProfileByUsername(_ context.Context, username string) (*models.Profile, error) {
	return r.find(func(p *models.Profile) bool { return p.Username == username })
}

func (r *memProfileRepo) GetProfileByFirebaseUID(_ context.Context, uid string) (*models.Profile, error) {
	return r.find(func(p *models.Profile) bool { return p.FirebaseUID != nil && *p.FirebaseUID == uid })
}

func (r *memProfileRepo) UpdateProfile(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}
