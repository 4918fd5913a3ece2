package domain

import "time"

// Company is registered by a recruiter and owns job postings.
type Company struct {
	ID          string
	Name        string
	Description string
	Website     string
	Location    string
	Logo        string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
