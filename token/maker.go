package token

import (
	"time"

	"complaint-tracking-backend/db/models"

	"github.com/google/uuid"
)

// Maker is the contract for anything that can create and verify tokens.
// It keeps the rest of the application independent of the PASETO
// implementation.
type Maker interface {
	CreateToken(userID uuid.UUID, email string, role models.Role, duration time.Duration) (string, error)

	VerifyToken(token string) (*Payload, error)
}
