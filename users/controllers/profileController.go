package controllers

import (
	"errors"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/middleware"
	"complaint-tracking-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (uc *UserController) GetMeController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)

	user, err := uc.Repo.GetUserByID(actor.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		config.Logger.Error("Failed to load profile", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}

func (uc *UserController) UpdateProfileController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user, err := uc.Repo.GetUserByID(actor.UserID.String())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.City != nil {
		user.City = req.City
	}

	updated, err := uc.Repo.UpdateUser(user)
	if err != nil {
		config.Logger.Error("Failed to update profile", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (uc *UserController) ChangePasswordController(c *fiber.Ctx) error {
	actor := middleware.ActorFromLocals(c)

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please provide current and new password",
		})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password must be at least 6 characters",
		})
	}

	user, err := uc.Repo.GetUserByID(actor.UserID.String())
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	if !repositories.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Current password is incorrect",
		})
	}

	passwordHash, err := repositories.HashPassword(req.NewPassword)
	if err != nil {
		config.Logger.Error("Failed to hash new password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not change password",
		})
	}

	user.PasswordHash = passwordHash
	// Rotation fulfilled: temporary credentials are single-use
	user.MustChangePassword = false

	if _, err := uc.Repo.UpdateUser(user); err != nil {
		config.Logger.Error("Failed to persist new password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not change password",
		})
	}

	config.Logger.Info("Password changed", zap.String("userID", user.ID.String()))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}
