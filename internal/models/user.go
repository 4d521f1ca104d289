package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"uniqueIndex"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Password   string `json:"-"` // Store hashed password, ignore for JSON serialization
	UID        string `json:"uid" gorm:"uniqueIndex"` // identity reference stamped on posts, comments and likes
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	UID    string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
