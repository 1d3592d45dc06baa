package middleware

import (
	"time"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour
)

// ActorFromLocals returns the verified token payload set by the auth
// middleware, or nil when the request is unauthenticated.
func ActorFromLocals(c *fiber.Ctx) *token.Payload {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return nil
	}
	return payload
}

// ProtectedRoute verifies the access token cookie and, when it is missing
// or expired, rotates the single-use refresh token stored in Redis.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" {
			payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
			if err == nil {
				c.Locals("user", payload)
				return c.Next()
			}
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		if refreshToken == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}

		refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken)
		if err != nil {
			config.Logger.Error("Refresh token verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Session expired or invalid. Please log in again.",
			})
		}

		// The refresh token must still be live in Redis; it is single-use.
		userID, err := ctx.RedisClient.Get(ctx.Ctx, "refresh_token:"+refreshToken).Result()
		if err == redis.Nil {
			config.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Session invalid. Please log in again.",
			})
		} else if err != nil {
			config.Logger.Error("Error accessing Redis for refresh token validation", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong",
			})
		}

		if err := ctx.RedisClient.Del(ctx.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Error deleting old refresh token from Redis",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}

		newAccessToken, err := ctx.PasetoMaker.CreateToken(
			refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, accessTokenDuration)
		if err != nil {
			config.Logger.Error("Could not generate new access token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong",
			})
		}

		newRefreshToken, err := ctx.PasetoMaker.CreateToken(
			refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, refreshTokenDuration)
		if err != nil {
			config.Logger.Error("Could not generate new refresh token", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong",
			})
		}

		err = ctx.RedisClient.Set(ctx.Ctx, "refresh_token:"+newRefreshToken, userID, refreshTokenDuration).Err()
		if err != nil {
			config.Logger.Error("Error storing new refresh token in Redis", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong",
			})
		}

		SetAuthCookies(c, newAccessToken, newRefreshToken)

		c.Locals("user", refreshPayload)
		return c.Next()
	}
}

// OptionalRoute resolves the actor when a valid access token is present
// but never rejects the request. Used by endpoints that accept anonymous
// public submissions.
func OptionalRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := c.Cookies("access_token"); accessToken != "" {
			if payload, err := ctx.PasetoMaker.VerifyToken(accessToken); err == nil {
				c.Locals("user", payload)
			}
		}
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles. Must run after ProtectedRoute.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := ActorFromLocals(c)
		if payload == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authentication required",
			})
		}
		for _, role := range roles {
			if payload.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Not authorized to access this resource",
		})
	}
}

// SetAuthCookies writes the access and refresh token cookies.
func SetAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	secure := config.GetEnv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(accessTokenDuration),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(refreshTokenDuration),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	})
}
