package dto

import (
	"time"

	"github.com/spec-kit/job-portal/internal/domain"
	"github.com/spec-kit/job-portal/internal/service"
)

// UserRegisterRequest is the text part of the registration form.
type UserRegisterRequest struct {
	Fullname    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Password    string `json:"password" form:"password"`
	Adharcard   string `json:"adharcard" form:"adharcard"`
	Pancard     string `json:"pancard" form:"pancard"`
	Role        string `json:"role" form:"role"`
}

// Input converts the request to service input.
func (r UserRegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		Fullname:    r.Fullname,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
		Adharcard:   r.Adharcard,
		Pancard:     r.Pancard,
		Role:        r.Role,
	}
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// ProfileUpdateRequest is the text part of the profile update form.
type ProfileUpdateRequest struct {
	Fullname    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Bio         string `json:"bio" form:"bio"`
	Skills      string `json:"skills" form:"skills"`
}

// Input converts the request to service input.
func (r ProfileUpdateRequest) Input() service.ProfileInput {
	return service.ProfileInput{
		Fullname:    r.Fullname,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Bio:         r.Bio,
		Skills:      r.Skills,
	}
}

// UserResponse is the public view of a user. The password hash never leaves
// the service layer.
type UserResponse struct {
	ID          string             `json:"id"`
	Fullname    string             `json:"fullname"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
	Adharcard   string             `json:"adharcard"`
	Pancard     string             `json:"pancard"`
	Role        domain.Role        `json:"role"`
	Profile     domain.UserProfile `json:"profile"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Adharcard:   u.Adharcard,
		Pancard:     u.Pancard,
		Role:        u.Role,
		Profile:     u.Profile,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
