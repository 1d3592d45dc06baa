package repositories

import (
	"errors"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	searchservices "complaint-tracking-backend/search/services"

	"github.com/blevesearch/bleve/v2"
	"go.uber.org/zap"
)

const (
	complaintsIndex = "complaints"
	searchLimit     = 50

	fieldComplaintNo = "complaint_no"
)

var ErrUnknownSearchField = errors.New("unknown search field")

// termFields are the indexed fields a query term is matched against when
// no search_by restriction is given.
var termFields = []string{"complainant_name", "mobile_no", "cnic_no", "housing_project"}

type ComplaintSearchRepository interface {
	IndexSingleComplaint(complaint models.Complaint) error
	IndexExistingComplaints(complaints []models.Complaint) error
	UpdateComplaint(complaint models.Complaint) error
	DeleteComplaint(complaintID string) error
	SearchComplaints(queryString, searchBy string) (*bleve.SearchResult, error)
}

type complaintSearchRepository struct {
	indexer searchservices.IndexingServiceInterface
}

func NewComplaintSearchRepository(indexer searchservices.IndexingServiceInterface) ComplaintSearchRepository {
	return &complaintSearchRepository{indexer: indexer}
}

// complaintDoc is the indexed projection of a complaint. Only the fields
// staff actually search on are stored.
type complaintDoc struct {
	ID              string `json:"id"`
	ComplaintNo     string `json:"complaint_no"`
	ComplainantName string `json:"complainant_name"`
	MobileNo        string `json:"mobile_no"`
	CNICNo          string `json:"cnic_no"`
	HousingProject  string `json:"housing_project"`
	Status          string `json:"status"`
	DepartmentID    string `json:"department_id"`
}

func toComplaintDoc(complaint models.Complaint) complaintDoc {
	housingProject := ""
	if complaint.PropertyInfo.HousingProject != nil {
		housingProject = *complaint.PropertyInfo.HousingProject
	}
	return complaintDoc{
		ID:              complaint.ID.String(),
		ComplaintNo:     complaint.ComplaintNo,
		ComplainantName: complaint.PersonalInfo.FullName,
		MobileNo:        complaint.PersonalInfo.MobileNo,
		CNICNo:          complaint.PersonalInfo.CNICNo,
		HousingProject:  housingProject,
		Status:          string(complaint.Status),
		DepartmentID:    complaint.DepartmentID.String(),
	}
}

func (r *complaintSearchRepository) IndexSingleComplaint(complaint models.Complaint) error {
	err := r.indexer.IndexDocument(complaintsIndex, complaint.ID.String(), toComplaintDoc(complaint))
	if err != nil {
		config.Logger.Error("Failed to index complaint",
			zap.Error(err), zap.String("complaint_no", complaint.ComplaintNo))
		return err
	}
	return nil
}

func (r *complaintSearchRepository) IndexExistingComplaints(complaints []models.Complaint) error {
	if len(complaints) == 0 {
		return nil
	}

	docs := make(map[string]interface{}, len(complaints))
	for _, complaint := range complaints {
		docs[complaint.ID.String()] = toComplaintDoc(complaint)
	}

	if err := r.indexer.BulkIndexDocuments(complaintsIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index complaints", zap.Error(err))
		return err
	}
	return nil
}

// UpdateComplaint re-indexes the complaint under the same document ID.
func (r *complaintSearchRepository) UpdateComplaint(complaint models.Complaint) error {
	return r.IndexSingleComplaint(complaint)
}

func (r *complaintSearchRepository) DeleteComplaint(complaintID string) error {
	if err := r.indexer.DeleteDocument(complaintsIndex, complaintID); err != nil {
		config.Logger.Error("Failed to delete complaint from index",
			zap.Error(err), zap.String("complaint_id", complaintID))
		return err
	}
	return nil
}

// SearchComplaints combines an exact complaint number match with fuzzy
// and prefix matching over the complainant and property fields. A
// non-empty searchBy restricts the term to that single field.
func (r *complaintSearchRepository) SearchComplaints(queryString, searchBy string) (*bleve.SearchResult, error) {
	fieldsToSearch := termFields
	switch searchBy {
	case "":
	case fieldComplaintNo:
		fieldsToSearch = nil
	default:
		restricted := ""
		for _, field := range termFields {
			if field == searchBy {
				restricted = field
				break
			}
		}
		if restricted == "" {
			return nil, ErrUnknownSearchField
		}
		fieldsToSearch = []string{restricted}
	}

	booleanQuery := bleve.NewBooleanQuery()

	if searchBy == "" || searchBy == fieldComplaintNo {
		// A complaint number pasted verbatim should rank above everything
		numberQuery := bleve.NewMatchQuery(queryString)
		numberQuery.SetField(fieldComplaintNo)
		numberQuery.SetBoost(5.0)
		booleanQuery.AddShould(numberQuery)
	}

	for _, field := range fieldsToSearch {
		fieldMatchQuery := bleve.NewMatchQuery(queryString)
		fieldMatchQuery.SetField(field)
		fieldMatchQuery.SetBoost(3.0)
		booleanQuery.AddShould(fieldMatchQuery)

		fieldPrefixQuery := bleve.NewPrefixQuery(queryString)
		fieldPrefixQuery.SetField(field)
		fieldPrefixQuery.SetBoost(2.0)
		booleanQuery.AddShould(fieldPrefixQuery)

		fieldFuzzyQuery := bleve.NewFuzzyQuery(queryString)
		fieldFuzzyQuery.SetField(field)
		fieldFuzzyQuery.SetFuzziness(1)
		fieldFuzzyQuery.SetBoost(1.0)
		booleanQuery.AddShould(fieldFuzzyQuery)
	}

	booleanQuery.SetMinShould(1)

	return r.indexer.SearchIndex(complaintsIndex, booleanQuery, searchLimit)
}
