package middleware

import (
	"firebase.google.com/go/v4/auth"
	"github.com/arafhm/minigram/backend/internal/apperrors"
	"github.com/labstack/echo/v4"
)

// FirebaseAuthMiddleware creates an Echo middleware that verifies Firebase
// ID tokens and stores the caller's identity reference in the context.
func FirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return apperrors.ErrTokenInvalid
			}

			c.Set("uid", token.UID)
			c.Set("firebaseToken", token)

			return next(c)
		}
	}
}
