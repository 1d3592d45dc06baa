package token

import (
	"strings"
	"testing"
	"time"

	"complaint-tracking-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSymmetricKey = "12345678901234567890123456789012"

func TestPasetoMakerRoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	userID := uuid.New()
	created, err := maker.CreateToken(userID, "staff@example.com", models.StaffRole, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	payload, err := maker.VerifyToken(created)
	require.NoError(t, err)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, "staff@example.com", payload.Email)
	assert.Equal(t, models.StaffRole, payload.Role)
	assert.NotEqual(t, uuid.Nil, payload.ID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), payload.ExpiredAt, 5*time.Second)
}

func TestPasetoMakerExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	created, err := maker.CreateToken(uuid.New(), "staff@example.com", models.StaffRole, -time.Minute)
	require.Error(t, err)
	assert.Empty(t, created)
}

func TestPasetoMakerRejectsTamperedToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	created, err := maker.CreateToken(uuid.New(), "staff@example.com", models.StaffRole, time.Minute)
	require.NoError(t, err)

	tampered := created[:len(created)-4] + strings.Repeat("x", 4)
	_, err = maker.VerifyToken(tampered)
	assert.Error(t, err)
}

func TestPasetoMakerRejectsShortKey(t *testing.T) {
	_, err := NewPasetoMaker("too-short")
	assert.Error(t, err)
}

func TestNewPayloadValidation(t *testing.T) {
	_, err := NewPayload(uuid.New(), "", models.UserRole, time.Minute)
	assert.Error(t, err)

	_, err = NewPayload(uuid.New(), "a@b.com", models.UserRole, 0)
	assert.Error(t, err)

	_, err = NewPayload(uuid.New(), "a@b.com", "superadmin", time.Minute)
	assert.Error(t, err)
}
