package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/car-rent-api/config"
	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/services"
	"go.uber.org/zap"
)

const (
	contextUserID      = "user_id"
	contextClaims      = "validated_claims"
	contextAccessToken = "access_token"
	contextCurrentUser = "current_user"
)

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Role string `json:"https://car-rent-api/role"`
}

// Validate does nothing, but we need it to satisfy
// the validator.CustomClaims interface.
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken is a middleware that will check the validity of our JWT.
func EnsureValidToken(cfg *config.Config, logger *zap.Logger) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Auth0Audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("set up jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Info("rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`)); writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		valid := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			valid = true
			claims := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			token, _ := bearerToken(r.Header.Get("Authorization"))

			SetAuthContext(c, claims.RegisteredClaims.Subject, claims, token)
			c.Request = r
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		// the error handler already wrote the 401
		if !valid {
			c.Abort()
		}
	}, nil
}

// SetAuthContext stores a validated identity in the gin context the way
// EnsureValidToken does. Tests use it to stand in for a real token.
func SetAuthContext(c *gin.Context, subject string, claims *validator.ValidatedClaims, accessToken string) {
	c.Set(contextUserID, subject)
	c.Set(contextClaims, claims)
	c.Set(contextAccessToken, accessToken)
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// GetUserID extracts the Auth0 subject from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(contextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok || validatedClaims == nil {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetRole returns the role requested through the token's custom claims, if any
func GetRole(c *gin.Context) models.Role {
	claims, err := GetClaims(c)
	if err != nil {
		return ""
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || custom == nil {
		return ""
	}
	return models.Role(custom.Role)
}

// GetAccessToken returns the raw bearer token of the request
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get(contextAccessToken)
	if !exists {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found"}
	}

	return tokenStr, nil
}

// ProfileResolver finds the local profile of an Auth0 subject
type ProfileResolver interface {
	Profile(ctx context.Context, auth0ID string) (*models.User, error)
}

// LoadCurrentUser resolves the token subject to a local profile.
// Callers without a profile are rejected with 401 USER_NOT_REGISTERED.
func LoadCurrentUser(profiles ProfileResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth0ID, err := GetUserID(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", "Could not extract user ID from token")
			return
		}

		user, err := profiles.Profile(c.Request.Context(), auth0ID)
		if err != nil {
			if services.KindOf(err) == services.KindNotFound {
				abortUnauthorized(c, "USER_NOT_REGISTERED", "User profile not found. Please create a profile first.")
				return
			}

			logger.Error("failed to load current user", zap.String("auth0_id", auth0ID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to load user profile",
				},
			})
			return
		}

		c.Set(contextCurrentUser, user)
		c.Next()
	}
}

// SetCurrentUser stores a resolved profile the way LoadCurrentUser does
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(contextCurrentUser, user)
}

// CurrentUser returns the profile loaded by LoadCurrentUser
func CurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(contextCurrentUser)
	if !exists {
		return nil, &AuthError{Code: "USER_NOT_REGISTERED", Message: "User profile not loaded"}
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, &AuthError{Code: "USER_NOT_REGISTERED", Message: "User profile not loaded"}
	}
	return user, nil
}

// CurrentCaller is the identity provider of the order service
func CurrentCaller(c *gin.Context) (services.Caller, error) {
	user, err := CurrentUser(c)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return services.Caller{}, services.UnauthorizedError(authErr.Code, authErr.Message)
		}
		return services.Caller{}, err
	}
	return services.Caller{UserID: user.ID, IsAdmin: user.IsAdmin()}, nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
