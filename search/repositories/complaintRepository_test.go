package repositories

import (
	"testing"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	searchservices "complaint-tracking-backend/search/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	config.InitTestLogger()
}

func searchFixture(t *testing.T) (ComplaintSearchRepository, models.Complaint, models.Complaint) {
	t.Helper()
	indexer := searchservices.NewIndexingService(zap.NewNop(), t.TempDir())
	repo := NewComplaintSearchRepository(indexer)

	greenValley := "Green Valley"
	first := models.Complaint{
		ID:           uuid.New(),
		ComplaintNo:  "HO-202503-00001",
		DepartmentID: uuid.New(),
		Status:       models.StatusPending,
		PersonalInfo: models.PersonalInfo{
			FullName: "Ahmed Raza",
			MobileNo: "03001234567",
			CNICNo:   "3520212345671",
			City:     "Lahore",
		},
		PropertyInfo: models.PropertyInfo{HousingProject: &greenValley},
	}

	lakeCity := "Lake City"
	second := models.Complaint{
		ID:           uuid.New(),
		ComplaintNo:  "LE-202503-00002",
		DepartmentID: uuid.New(),
		Status:       models.StatusInProgress,
		PersonalInfo: models.PersonalInfo{
			FullName: "Sana Malik",
			MobileNo: "03339876543",
			CNICNo:   "3520298765431",
			City:     "Lahore",
		},
		PropertyInfo: models.PropertyInfo{HousingProject: &lakeCity},
	}

	require.NoError(t, repo.IndexSingleComplaint(first))
	require.NoError(t, repo.IndexSingleComplaint(second))
	return repo, first, second
}

func TestSearchComplaintsByNumber(t *testing.T) {
	repo, first, _ := searchFixture(t)

	result, err := repo.SearchComplaints("HO-202503-00001", "")
	require.NoError(t, err)
	require.NotZero(t, result.Total)
	assert.Equal(t, first.ID.String(), result.Hits[0].ID)
}

func TestSearchComplaintsByName(t *testing.T) {
	repo, first, _ := searchFixture(t)

	result, err := repo.SearchComplaints("Ahmed", "complainant_name")
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, first.ID.String(), result.Hits[0].ID)
}

func TestSearchComplaintsFieldRestriction(t *testing.T) {
	repo, first, _ := searchFixture(t)

	// A name term restricted to the housing project field finds nothing
	result, err := repo.SearchComplaints("Ahmed", "housing_project")
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	result, err = repo.SearchComplaints("Green", "housing_project")
	require.NoError(t, err)
	require.NotZero(t, result.Total)
	assert.Equal(t, first.ID.String(), result.Hits[0].ID)
}

func TestSearchComplaintsUnknownField(t *testing.T) {
	repo, _, _ := searchFixture(t)

	_, err := repo.SearchComplaints("anything", "status")
	assert.ErrorIs(t, err, ErrUnknownSearchField)
}
