// Package models contains data structures for the application's domain models.
package models

import "time"

// Status is the lifecycle state of an access request.
type Status string

const (
	// StatusPending indicates the request is awaiting review.
	StatusPending Status = "Pending"
	// StatusApproved indicates access was granted.
	StatusApproved Status = "Approved"
	// StatusRejected indicates access was denied.
	StatusRejected Status = "Rejected"
	// StatusCancelled indicates the request was withdrawn.
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CommentType returns the comment type recorded alongside a transition to s.
func (s Status) CommentType() CommentType {
	switch s {
	case StatusApproved:
		return CommentTypeApproval
	case StatusRejected:
		return CommentTypeRejection
	default:
		return CommentTypeGeneral
	}
}

// RequestType classifies what is being asked for.
type RequestType string

const (
	RequestTypeSystemAccess      RequestType = "System Access"
	RequestTypeAccountManagement RequestType = "Account Management"
	RequestTypeDataReporting     RequestType = "Data Reporting"
	RequestTypeMiscellaneous     RequestType = "Miscellaneous"
)

// RequestTypes lists every request type in display order.
var RequestTypes = []RequestType{
	RequestTypeSystemAccess,
	RequestTypeAccountManagement,
	RequestTypeDataReporting,
	RequestTypeMiscellaneous,
}

// Valid reports whether t is one of the known request types.
func (t RequestType) Valid() bool {
	for _, known := range RequestTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority is the urgency assigned by the requester.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// SLATarget is the processing time a request of priority p should complete within.
func (p Priority) SLATarget() time.Duration {
	switch p {
	case PriorityCritical:
		return 4 * time.Hour
	case PriorityHigh:
		return 24 * time.Hour
	case PriorityLow:
		return 120 * time.Hour
	default:
		return 72 * time.Hour
	}
}

// DefaultAccessLevel is stored when the requester does not name one.
const DefaultAccessLevel = "Standard"

// AccessRequest is a request for access to a system on behalf of a department.
type AccessRequest struct {
	ID                    uint        `gorm:"primaryKey" json:"id"`
	RequestCode           string      `gorm:"column:request_code;size:32;not null;uniqueIndex" json:"request_id"`
	UUID                  string      `gorm:"column:uuid;size:36;not null;uniqueIndex" json:"uuid"`
	RequesterID           uint        `gorm:"not null;index" json:"requester_id"`
	DepartmentID          uint        `gorm:"not null;index" json:"department_id"`
	SystemID              uint        `gorm:"not null;index" json:"system_id"`
	RequestType           RequestType `gorm:"type:varchar(32);not null" json:"request_type"`
	Priority              Priority    `gorm:"type:varchar(16);not null" json:"priority"`
	Status                Status      `gorm:"type:varchar(16);not null;index" json:"status"`
	Title                 string      `gorm:"size:200;not null" json:"title"`
	Description           string      `gorm:"type:text" json:"description"`
	BusinessJustification string      `gorm:"type:text;not null" json:"business_justification"`
	AccessLevel           string      `gorm:"size:50;not null" json:"access_level"`
	TemporaryAccess       bool        `gorm:"not null" json:"temporary_access"`
	AccessStartDate       *time.Time  `json:"access_start_date"`
	AccessEndDate         *time.Time  `json:"access_end_date"`
	// ProcessingTimeHours, SLAMet and CompletedAt are only set once Status is terminal.
	ProcessingTimeHours *float64   `gorm:"column:processing_time_hours;type:numeric(10,2)" json:"processing_time_hours"`
	SLAMet              *bool      `gorm:"column:sla_met" json:"sla_met"`
	SubmittedAt         time.Time  `gorm:"not null;index" json:"submitted_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	AssignedTo          *uint      `json:"assigned_to"`
	CreatedBy           uint       `gorm:"not null" json:"created_by"`
	UpdatedBy           *uint      `json:"updated_by"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AccessRequest) TableName() string {
	return "access_requests"
}

// RequestDetail is an access request joined with the display names of the
// entities it references.
type RequestDetail struct {
	AccessRequest
	DepartmentName    string  `json:"department_name"`
	SystemName        string  `json:"system_name"`
	SystemDescription string  `json:"system_description"`
	RequesterName     string  `json:"requester_name"`
	RequesterEmail    string  `json:"requester_email"`
	AssignedToName    *string `json:"assigned_to_name"`
}

// Comment is a note attached to an access request, usually written during a
// status transition.
type Comment struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	RequestID   uint        `gorm:"not null;index" json:"request_id"`
	UserID      uint        `gorm:"not null" json:"user_id"`
	CommentType CommentType `gorm:"type:varchar(16);not null" json:"comment_type"`
	Body        string      `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedAt   time.Time   `json:"created_at"`
	// CommenterName is not persisted; joined from users when listing
	CommenterName string `gorm:"->;-:migration" json:"commenter_name,omitempty"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "request_comments"
}

// CommentType mirrors the transition that produced a comment.
type CommentType string

const (
	CommentTypeGeneral   CommentType = "General"
	CommentTypeApproval  CommentType = "Approval"
	CommentTypeRejection CommentType = "Rejection"
)
