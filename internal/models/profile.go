package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the user-facing identity. Its ID doubles as the auth subject.
type Profile struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username      string    `json:"username" gorm:"size:30;uniqueIndex"`
	DisplayName   string    `json:"display_name" gorm:"size:60"`
	ProfilePicURL string    `json:"profile_pic_url"`
	Bio           string    `json:"bio" gorm:"size:300"`
	IsPrivate     bool      `json:"is_private" gorm:"default:false"`
	Email         string    `json:"email,omitempty" gorm:"uniqueIndex"`
	Password      string    `json:"-"` // bcrypt hash
	FirebaseUID   *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProfileCompact is the actor/author shape embedded in other payloads.
type ProfileCompact struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	ProfilePicURL string    `json:"profile_pic_url"`
}

func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		ID:            p.ID,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		ProfilePicURL: p.ProfilePicURL,
	}
}

type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=60"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username    string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=2,max=60"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=300"`
	IsPrivate   *bool  `json:"is_private,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
