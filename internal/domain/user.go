package domain

import "time"

// User is an account holder: a student applying to jobs or a recruiter posting them.
type User struct {
	ID           string
	Fullname     string
	Email        string
	PhoneNumber  string
	Adharcard    string
	Pancard      string
	PasswordHash string
	Role         Role
	Profile      UserProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is stored as a JSON document alongside the user row.
// Asset fields are either empty or hold the URL of a confirmed upload.
type UserProfile struct {
	Bio                string   `json:"bio,omitempty"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resumeOriginalName,omitempty"`
	Company            string   `json:"company,omitempty"`
	ProfilePhoto       string   `json:"profilePhoto,omitempty"`
}
