package services

import (
	"errors"
	"fmt"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	departments_repositories "complaint-tracking-backend/departments/repositories"
	"complaint-tracking-backend/notifications"
	"complaint-tracking-backend/users/repositories"
	"complaint-tracking-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmailInUse         = errors.New("email already in use")
	ErrHODExists          = errors.New("department already has an HOD assigned")
	ErrInvalidRole        = errors.New("only staff and hod accounts can be provisioned")
)

// CredentialsNotifier delivers initial credentials out-of-band.
// Satisfied by notifications.Dispatcher.
type CredentialsNotifier interface {
	CredentialsIssued(p notifications.CredentialsIssuedPayload)
}

// ProvisioningService creates staff and HOD accounts with generated
// single-use credentials. The credential is stored only as a bcrypt hash
// and delivered through the notification queue; the account must rotate
// it on first login.
type ProvisioningService struct {
	userRepo       repositories.UserRepository
	departmentRepo departments_repositories.DepartmentRepository
	notifier       CredentialsNotifier
}

func NewProvisioningService(
	userRepo repositories.UserRepository,
	departmentRepo departments_repositories.DepartmentRepository,
	notifier CredentialsNotifier,
) *ProvisioningService {
	return &ProvisioningService{
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		notifier:       notifier,
	}
}

// ProvisionActor creates a staff or HOD account in the given department.
// For HOD accounts the department must not already have an active HOD.
func (s *ProvisioningService) ProvisionActor(role models.Role, departmentID, name, email string, phone *string) (*models.User, error) {
	if !role.IsStaffRole() {
		return nil, ErrInvalidRole
	}

	department, err := s.departmentRepo.GetDepartmentByID(departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to resolve department: %w", err)
	}

	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	if role == models.HODRole {
		if _, err := s.userRepo.GetActiveHOD(departmentID); err == nil {
			return nil, ErrHODExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing HOD: %w", err)
		}
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary credential: %w", err)
	}

	passwordHash, err := repositories.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary credential: %w", err)
	}

	user := &models.User{
		ID:                   uuid.New(),
		Name:                 name,
		Email:                email,
		Phone:                phone,
		PasswordHash:         passwordHash,
		MustChangePassword:   true,
		Role:                 role,
		AssignedDepartmentID: &department.ID,
		IsActive:             true,
	}

	created, err := s.userRepo.CreateUser(user)
	if err != nil {
		return nil, err
	}

	config.Logger.Info("Provisioned department account",
		zap.String("userID", created.ID.String()),
		zap.String("role", string(role)),
		zap.String("department", department.Name),
	)

	phoneValue := ""
	if phone != nil {
		phoneValue = *phone
	}
	s.notifier.CredentialsIssued(notifications.CredentialsIssuedPayload{
		Email:          email,
		Phone:          phoneValue,
		Name:           name,
		DepartmentName: department.Name,
		Role:           string(role),
		TempPassword:   tempPassword,
	})

	return created, nil
}
