package models

import (
	"strings"
	"time"
)

// User is a requester, reviewer or commenter.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins the name parts the way the list views display them.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Department owns access requests. Only active departments are offered as filters.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code      string    `gorm:"size:20;not null;uniqueIndex" json:"code"`
	IsActive  bool      `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// System is an application that access can be requested for.
type System struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Code        string    `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Description string    `gorm:"type:text" json:"-"`
	IsActive    bool      `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// FilterOptions enumerates the values the dashboard offers in its filter bar.
type FilterOptions struct {
	Departments  []Department  `json:"departments"`
	Systems      []System      `json:"systems"`
	Statuses     []Status      `json:"statuses"`
	RequestTypes []RequestType `json:"requestTypes"`
	Priorities   []Priority    `json:"priorities"`
}
