package services

import (
	"errors"
	"time"

	"complaint-tracking-backend/db/models"

	"gorm.io/gorm"
)

// PublicComment is an anonymized thread entry for the tracking page.
type PublicComment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicView is the reduced projection returned to unauthenticated
// trackers. It never carries personal info, documents, internal comments
// or assignment data.
type PublicView struct {
	ComplaintNo    string                 `json:"complaint_no"`
	Status         models.ComplaintStatus `json:"status"`
	DepartmentName string                 `json:"department_name"`
	HousingProject *string                `json:"housing_project"`
	ProblemType    *string                `json:"problem_type"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	ResolvedAt     *time.Time             `json:"resolved_at"`
	Comments       []PublicComment        `json:"comments"`
}

// CommentAuthorLabel anonymizes a comment author for public rendering.
func CommentAuthorLabel(comment models.Comment) string {
	if comment.UserID == nil {
		if comment.IsSystem {
			return "System"
		}
		return "Complainant"
	}
	if comment.User != nil && !comment.User.Role.IsStaffRole() && comment.User.Role != models.AdminRole {
		return "Complainant"
	}
	return "Staff"
}

// TrackComplaint returns the public projection for a tracking number.
func (s *ComplaintService) TrackComplaint(complaintNo string) (*PublicView, error) {
	complaint, err := s.complaintRepo.GetComplaintByNo(complaintNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comments := make([]PublicComment, 0, len(complaint.Comments))
	for _, comment := range complaint.Comments {
		if comment.IsInternal {
			continue
		}
		comments = append(comments, PublicComment{
			Author:    CommentAuthorLabel(comment),
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		})
	}

	departmentName := ""
	if complaint.Department != nil {
		departmentName = complaint.Department.Name
	}

	return &PublicView{
		ComplaintNo:    complaint.ComplaintNo,
		Status:         complaint.Status,
		DepartmentName: departmentName,
		HousingProject: complaint.PropertyInfo.HousingProject,
		ProblemType:    complaint.PropertyInfo.ProblemType,
		CreatedAt:      complaint.CreatedAt,
		UpdatedAt:      complaint.UpdatedAt,
		ResolvedAt:     complaint.Resolution.ResolvedAt,
		Comments:       comments,
	}, nil
}
