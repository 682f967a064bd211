package models

import (
	"time"

	"github.com/google/uuid"
)

// User type enums.
const (
	UserTypeClient = "CLIENT"
	UserTypeWorker = "WORKER"
	UserTypeAdmin  = "ADMIN"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone"`
	City           string    `json:"city"`
	UserType       string    `json:"userType"`
	Active         bool      `json:"active"`
	ProfilePicture []byte    `json:"profilePicture,omitempty"`

	// Worker-only fields. Rating is the running average from reviews.
	Skills        string   `json:"skills,omitempty"`
	HourlyRate    *int64   `json:"hourlyRate,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsWorker reports whether the user can be assigned tasks.
func (u *User) IsWorker() bool { return u.UserType == UserTypeWorker }

// IsAdmin reports whether the user can manage users, notices, and reports.
func (u *User) IsAdmin() bool { return u.UserType == UserTypeAdmin }
