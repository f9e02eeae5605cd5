package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/labstack/echo/v4"
)

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware accepts either a local JWT or a Firebase ID token.
// Firebase tokens are mapped onto the linked profile so handlers always see
// the same "user" claims. verifier may be nil, in which case only local JWTs
// are accepted.
func FirebaseAuthMiddleware(jwtSecret string, verifier IDTokenVerifier, profiles repositories.ProfileRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			if claims, err := ParseJWT(jwtSecret, tokenString); err == nil {
				c.Set("user", claims)
				return next(c)
			}
			if verifier == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}
			profile, err := profiles.GetProfileByFirebaseUID(ctx, token.UID)
			if err != nil {
				logging.Ctx(ctx).Debug().Err(err).Str("firebase_uid", token.UID).Msg("no profile linked to firebase uid")
				return echo.NewHTTPError(http.StatusUnauthorized, "Account not registered; call /auth/firebase-login first")
			}

			c.Set("user", &models.JwtCustomClaims{UserID: profile.ID.String(), Email: profile.Email})
			c.Set("firebaseUID", token.UID)
			return next(c)
		}
	}
}
