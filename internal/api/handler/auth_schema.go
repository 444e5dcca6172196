package handler

import (
	"time"

	"github.com/creatorhub/marketplace/internal/core/domain"
	"github.com/creatorhub/marketplace/internal/core/ports"
)

// IdempotencyHeader carries an optional client-chosen key that makes a
// retried registration replay success instead of failing with 409.
const IdempotencyHeader = "Idempotency-Key"

type registerRequest struct {
	Name     string `json:"name"     validate:"required,notblank"`
	Email    string `json:"email"    validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,notblank"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateProfileRequest is a full replacement; omitted profile fields are cleared.
type updateProfileRequest struct {
	Name  string `json:"name"  validate:"required,notblank"`
	Email string `json:"email" validate:"required,notblank"`
	domain.Profile
}

// patchProfileRequest writes only the fields present in the body.
type patchProfileRequest struct {
	Name  *string `json:"name"  validate:"omitnil,notblank"`
	Email *string `json:"email" validate:"omitnil,notblank"`
	domain.Profile
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userResponse struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type profileResponse struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	domain.Profile
	CreatedAt       time.Time `json:"createdAt"`
	ProfileComplete bool      `json:"profileComplete"`
	MissingFields   []string  `json:"missingFields"`
}

func toProfileResponse(v *ports.ProfileView) profileResponse {
	missing := v.MissingFields
	if missing == nil {
		missing = []string{}
	}
	return profileResponse{
		Name:            v.Name,
		Email:           v.Email,
		Role:            v.Role,
		Profile:         v.Profile,
		CreatedAt:       v.CreatedAt,
		ProfileComplete: v.ProfileComplete,
		MissingFields:   missing,
	}
}
