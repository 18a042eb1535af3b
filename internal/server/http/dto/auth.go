package dto

import (
	"time"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// RegisterRequest describes the sign-up payload. Role defaults to customer.
type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=customer artist"`
}

// LoginRequest describes login/password payload.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest replaces the shipping profile of the caller.
type ProfileRequest struct {
	Street  string `json:"street" binding:"max=255"`
	City    string `json:"city" binding:"max=128"`
	State   string `json:"state" binding:"max=128"`
	ZipCode string `json:"zip_code" binding:"max=32"`
	Country string `json:"country" binding:"max=128"`
	Mobile  string `json:"mobile" binding:"omitempty,mobile"`
}

func (r ProfileRequest) Profile() model.Profile {
	return model.Profile{
		Street:  r.Street,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Country: r.Country,
		Mobile:  r.Mobile,
	}
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           int64         `json:"id"`
	Login        string        `json:"login"`
	Role         string        `json:"role"`
	ArtistStatus string        `json:"artist_status,omitempty"`
	Profile      model.Profile `json:"profile"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewUserResponse converts a user without its password hash.
func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Login:        u.Login,
		Role:         string(u.Role),
		ArtistStatus: string(u.ArtistStatus),
		Profile:      u.Profile,
		CreatedAt:    u.CreatedAt,
	}
}
