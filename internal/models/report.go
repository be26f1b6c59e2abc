package models

import "time"

// DashboardMetrics is the single-row summary shown at the top of the dashboard.
// Rates are nil when their denominator is zero.
type DashboardMetrics struct {
	TotalRequests     int64    `gorm:"column:total_requests" json:"total_requests" yaml:"total_requests"`
	PendingRequests   int64    `gorm:"column:pending_requests" json:"pending_requests" yaml:"pending_requests"`
	ApprovedRequests  int64    `gorm:"column:approved_requests" json:"approved_requests" yaml:"approved_requests"`
	RejectedRequests  int64    `gorm:"column:rejected_requests" json:"rejected_requests" yaml:"rejected_requests"`
	CancelledRequests int64    `gorm:"column:cancelled_requests" json:"cancelled_requests" yaml:"cancelled_requests"`
	AvgProcessingTime *float64 `gorm:"column:avg_processing_time" json:"avg_processing_time" yaml:"avg_processing_time"`
	ApprovalRate      *float64 `gorm:"column:approval_rate" json:"approval_rate" yaml:"approval_rate"`
	SLAMetRate        *float64 `gorm:"column:sla_met_rate" json:"sla_met_rate" yaml:"sla_met_rate"`
}

// MonthlyTrendPoint is one month of request volume.
type MonthlyTrendPoint struct {
	Month             string    `gorm:"column:month" json:"month"`
	MonthDate         time.Time `gorm:"column:month_date" json:"month_date"`
	TotalRequests     int64     `gorm:"column:total_requests" json:"total_requests"`
	ApprovedRequests  int64     `gorm:"column:approved_requests" json:"approved_requests"`
	RejectedRequests  int64     `gorm:"column:rejected_requests" json:"rejected_requests"`
	PendingRequests   int64     `gorm:"column:pending_requests" json:"pending_requests"`
	AvgProcessingTime *float64  `gorm:"column:avg_processing_time" json:"avg_processing_time"`
}

// PerformancePoint is one month of processing performance.
type PerformancePoint struct {
	Month             string    `gorm:"column:month" json:"month"`
	MonthDate         time.Time `gorm:"column:month_date" json:"month_date"`
	AvgProcessingTime *float64  `gorm:"column:avg_processing_time" json:"avg_processing_time"`
	ApprovalRate      *float64  `gorm:"column:approval_rate" json:"approval_rate"`
	SLAMetRate        *float64  `gorm:"column:sla_met_rate" json:"sla_met_rate"`
}

type StatusShare struct {
	Status     Status  `gorm:"column:status" json:"status"`
	Count      int64   `gorm:"column:count" json:"count"`
	Percentage float64 `gorm:"column:percentage" json:"percentage"`
}

type RequestTypeShare struct {
	RequestType RequestType `gorm:"column:request_type" json:"request_type"`
	Count       int64       `gorm:"column:count" json:"count"`
	Percentage  float64     `gorm:"column:percentage" json:"percentage"`
}

// DepartmentPerformance aggregates requests per active department. Departments
// with no matching requests carry zero counts and nil averages.
type DepartmentPerformance struct {
	DepartmentName    string   `gorm:"column:department_name" json:"department_name"`
	DepartmentCode    string   `gorm:"column:department_code" json:"department_code"`
	TotalRequests     int64    `gorm:"column:total_requests" json:"total_requests"`
	ApprovedRequests  int64    `gorm:"column:approved_requests" json:"approved_requests"`
	RejectedRequests  int64    `gorm:"column:rejected_requests" json:"rejected_requests"`
	PendingRequests   int64    `gorm:"column:pending_requests" json:"pending_requests"`
	AvgProcessingTime *float64 `gorm:"column:avg_processing_time" json:"avg_processing_time"`
	ApprovalRate      *float64 `gorm:"column:approval_rate" json:"approval_rate"`
}

// RequestListItem is one row of the paginated request table and of exports.
type RequestListItem struct {
	RequestID           string      `gorm:"column:request_id" json:"request_id"`
	Title               string      `gorm:"column:title" json:"title"`
	Status              Status      `gorm:"column:status" json:"status"`
	Priority            Priority    `gorm:"column:priority" json:"priority"`
	RequestType         RequestType `gorm:"column:request_type" json:"request_type"`
	ProcessingTimeHours *float64    `gorm:"column:processing_time_hours" json:"processing_time_hours"`
	SubmittedAt         time.Time   `gorm:"column:submitted_at" json:"submitted_at"`
	CompletedAt         *time.Time  `gorm:"column:completed_at" json:"completed_at"`
	DepartmentName      string      `gorm:"column:department_name" json:"department_name"`
	SystemName          string      `gorm:"column:system_name" json:"system_name"`
	RequesterName       string      `gorm:"column:requester_name" json:"requester_name"`
	// RequesterEmail is selected by the list query only. The export query
	// leaves it out on purpose so exported files carry no email addresses;
	// omitempty drops the empty value from JSON exports.
	RequesterEmail string `gorm:"column:requester_email" json:"requester_email,omitempty"`
}

// Pagination describes the page returned by a list call.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// RequestPage is a page of list items plus its pagination metadata.
type RequestPage struct {
	Data       []RequestListItem `json:"data"`
	Pagination Pagination        `json:"pagination"`
}
