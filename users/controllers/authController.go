package controllers

import (
	"context"
	"errors"
	"time"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/middleware"
	"complaint-tracking-backend/token"
	"complaint-tracking-backend/users/repositories"
	"complaint-tracking-backend/users/services"
	"complaint-tracking-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour
)

type UserController struct {
	Repo         repositories.UserRepository
	DB           *gorm.DB
	Ctx          context.Context
	RedisClient  *redis.Client
	TokenMaker   token.Maker
	Provisioning *services.ProvisioningService
}

// RegisterRequest is the self-registration payload. The role is always
// forced to citizen regardless of input.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    *string `json:"phone"`
	CNIC     *string `json:"cnic"`
	City     *string `json:"city"`
}

func (uc *UserController) RegisterController(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Name, email and password are required",
		})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 6 characters",
		})
	}
	if req.CNIC != nil && *req.CNIC != "" && !utils.ValidCNIC(*req.CNIC) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please add a valid CNIC number without dashes",
		})
	}

	passwordHash, err := repositories.HashPassword(req.Password)
	if err != nil {
		config.Logger.Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not create account",
		})
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CNIC:         req.CNIC,
		City:         req.City,
		PasswordHash: passwordHash,
		Role:         models.UserRole,
		IsActive:     true,
	}

	created, err := uc.Repo.CreateUser(user)
	if err != nil {
		config.Logger.Warn("User registration rejected", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	if err := uc.issueSession(c, created); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not create session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    created.ID,
			"name":  created.Name,
			"email": created.Email,
			"role":  created.Role,
		},
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (uc *UserController) LoginController(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please provide an email and password",
		})
	}

	user, err := uc.Repo.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			config.Logger.Error("Login lookup failed", zap.Error(err))
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Your account has been deactivated",
		})
	}

	if !repositories.CheckPasswordHash(req.Password, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if err := uc.issueSession(c, user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not create session",
		})
	}

	config.Logger.Info("User logged in",
		zap.String("userID", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":                   user.ID,
			"name":                 user.Name,
			"email":                user.Email,
			"role":                 user.Role,
			"must_change_password": user.MustChangePassword,
		},
	})
}

func (uc *UserController) LogoutController(c *fiber.Ctx) error {
	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		if err := uc.RedisClient.Del(uc.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Failed to revoke refresh token", zap.Error(err))
		}
	}

	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Expires: time.Now().Add(-time.Hour), Path: "/"})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Expires: time.Now().Add(-time.Hour), Path: "/"})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out",
	})
}

// issueSession creates the access/refresh token pair, stores the refresh
// token single-use in Redis and sets both cookies.
func (uc *UserController) issueSession(c *fiber.Ctx, user *models.User) error {
	accessToken, err := uc.TokenMaker.CreateToken(user.ID, user.Email, user.Role, accessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not create access token", zap.Error(err))
		return err
	}

	refreshToken, err := uc.TokenMaker.CreateToken(user.ID, user.Email, user.Role, refreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not create refresh token", zap.Error(err))
		return err
	}

	err = uc.RedisClient.Set(uc.Ctx, "refresh_token:"+refreshToken, user.ID.String(), refreshTokenDuration).Err()
	if err != nil {
		config.Logger.Error("Could not store refresh token in Redis", zap.Error(err))
		return err
	}

	middleware.SetAuthCookies(c, accessToken, refreshToken)
	return nil
}
