package auth

import (
	"github.com/google/uuid"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
)

// LoginRequest is the password login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest asks for a one-time code to be mailed out.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest exchanges a mailed code for an access token.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResetPasswordRequest sets a new password after OTP verification.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AdminDTO is the admin identity returned with a token.
type AdminDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// LoginResponse carries the minted access token.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	Admin       AdminDTO `json:"admin"`
}

func fromModel(admin *models.AdminUser) AdminDTO {
	return AdminDTO{ID: admin.ID, Email: admin.Email}
}
