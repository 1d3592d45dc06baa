package services

import (
	"fmt"
	"time"

	"complaint-tracking-backend/complaints/repositories"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/token"
	"complaint-tracking-backend/utils"
)

// trendWindowMonths bounds the monthly aggregate so the dashboard query
// never scans the whole table.
const trendWindowMonths = 24

// StatsResult is the dashboard aggregate.
type StatsResult struct {
	Total        int64                          `json:"total"`
	ByStatus     []repositories.StatusCount     `json:"by_status"`
	ByDepartment []repositories.DepartmentCount `json:"by_department"`
	MonthlyTrend []repositories.MonthCount      `json:"monthly_trend"`
}

// statsScopeFor narrows the aggregates by role: staff see their own
// queue, HODs their department, admins everything.
func (s *ComplaintService) statsScopeFor(actor *token.Payload) (repositories.StatsScope, error) {
	scope := repositories.StatsScope{}
	switch actor.Role {
	case models.AdminRole:
		return scope, nil
	case models.StaffRole:
		assignedTo := actor.UserID
		scope.AssignedToID = &assignedTo
		return scope, nil
	case models.HODRole:
		hod, err := s.userRepo.GetUserByID(actor.UserID.String())
		if err != nil {
			return scope, fmt.Errorf("failed to resolve acting HOD: %w", err)
		}
		if hod.AssignedDepartmentID == nil {
			return scope, ErrForbidden
		}
		scope.DepartmentID = hod.AssignedDepartmentID
		return scope, nil
	}
	return scope, ErrForbidden
}

// GetStats aggregates complaint counts by status, department and month.
func (s *ComplaintService) GetStats(actor *token.Payload) (*StatsResult, error) {
	if err := Authorize(OpGetStats, actor, nil); err != nil {
		return nil, err
	}

	scope, err := s.statsScopeFor(actor)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.complaintRepo.CountByStatus(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}

	byDepartment, err := s.complaintRepo.CountByDepartment(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by department: %w", err)
	}

	since := time.Now().AddDate(0, -trendWindowMonths, 0)
	trend, err := s.complaintRepo.MonthlyTrend(scope, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly trend: %w", err)
	}

	var total int64
	for _, row := range byStatus {
		total += row.Count
	}

	return &StatsResult{
		Total:        total,
		ByStatus:     byStatus,
		ByDepartment: byDepartment,
		MonthlyTrend: trend,
	}, nil
}

// ExportStats writes the aggregate to an Excel workbook and returns the
// file path. Exported files live under the transient export directory.
func (s *ComplaintService) ExportStats(actor *token.Payload) (string, error) {
	stats, err := s.GetStats(actor)
	if err != nil {
		return "", err
	}

	statusRows := make([][]interface{}, 0, len(stats.ByStatus))
	for _, row := range stats.ByStatus {
		statusRows = append(statusRows, []interface{}{string(row.Status), row.Count})
	}

	departmentRows := make([][]interface{}, 0, len(stats.ByDepartment))
	for _, row := range stats.ByDepartment {
		departmentRows = append(departmentRows, []interface{}{row.DepartmentName, row.Count})
	}

	trendRows := make([][]interface{}, 0, len(stats.MonthlyTrend))
	for _, row := range stats.MonthlyTrend {
		trendRows = append(trendRows, []interface{}{row.Month, row.Count})
	}

	sheets := []utils.ExcelSheet{
		{
			Name:    "By Status",
			Headers: []string{"Status", "Complaints"},
			Rows:    statusRows,
		},
		{
			Name:    "By Department",
			Headers: []string{"Department", "Complaints"},
			Rows:    departmentRows,
		},
		{
			Name:    "Monthly Trend",
			Headers: []string{"Month", "Complaints"},
			Rows:    trendRows,
		},
	}

	return utils.GenerateExcel("complaint-stats", sheets)
}
