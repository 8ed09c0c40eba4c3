package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/tokens"
)

// UserAuth returns a middleware that authenticates requests using bearer JWT
// access tokens. It validates the token, rejects revoked jtis, looks up the
// user, and sets the user and claims in the context.
func UserAuth(cfg *config.Config, db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx, authSpan := otel.Tracer("middleware").Start(ctx, "user_auth",
			trace.WithAttributes(attribute.String("middleware", "user_auth")))

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("No token, authorization denied"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		claims, err := tokens.Parse(cfg.Auth.JWTSecret, raw)
		if err != nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Token is not valid"))
			return
		}

		// Logged-out tokens stay revoked until their natural expiry.
		if rdb != nil {
			revoked, err := rdb.Exists(ctx, tokens.RevocationKey(claims.ID)).Result()
			if err != nil {
				authSpan.RecordError(err)
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
				return
			}
			if revoked > 0 {
				authSpan.SetAttributes(attribute.Bool("authenticated", false))
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Token is not valid"))
				return
			}
		}

		userID, err := claims.UserID()
		if err != nil {
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Token is not valid"))
			return
		}

		var user model.User
		if err := db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				authSpan.SetAttributes(attribute.Bool("authenticated", false))
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Token is not valid"))
				return
			}
			authSpan.RecordError(err)
			authSpan.End()
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		// Tag the request span for telemetry filtering.
		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", user.ID.String()))
		}

		authSpan.SetAttributes(
			attribute.String("user_id", user.ID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set("user", &user)
		c.Set("claims", claims)
		c.Next()
	}
}
