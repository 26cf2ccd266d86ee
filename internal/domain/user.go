package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is a registered user plus their challenge ledger. Points and
// streak reflect the net effect of submissions currently in approved status
// and are only ever written inside a review transition.
type UserProfile struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email                string    `json:"email" gorm:"uniqueIndex;not null"`
	DisplayName          string    `json:"display_name" gorm:"not null"`
	PasswordHash         string    `json:"-" gorm:"not null"`
	Points               int       `json:"points" gorm:"not null;default:0"`
	DailyChallengeStreak int       `json:"daily_challenge_streak" gorm:"not null;default:0"`
	IsAdmin              bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// UserRepository defines the interface for user profile data access
type UserRepository interface {
	Create(user *UserProfile) error
	FindByID(id uuid.UUID) (*UserProfile, error)
	FindByEmail(email string) (*UserProfile, error)
	Update(user *UserProfile) error
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required,min=2,max=60"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UserResponse represents the public user data returned by the API
type UserResponse struct {
	ID                   uuid.UUID `json:"id"`
	Email                string    `json:"email"`
	DisplayName          string    `json:"display_name"`
	Points               int       `json:"points"`
	DailyChallengeStreak int       `json:"daily_challenge_streak"`
	IsAdmin              bool      `json:"is_admin"`
	CreatedAt            time.Time `json:"created_at"`
}

// ToResponse converts a UserProfile to a UserResponse (hides sensitive data)
func (u *UserProfile) ToResponse() UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		Points:               u.Points,
		DailyChallengeStreak: u.DailyChallengeStreak,
		IsAdmin:              u.IsAdmin,
		CreatedAt:            u.CreatedAt,
	}
}
