package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"    json:"email"`
	PasswordHash string    `gorm:"not null"                         json:"-"`
	Role         string    `gorm:"size:16;not null;default:'user'"  json:"role"`
	Name         string    `gorm:"size:255"                         json:"name"`
	Image        string    `gorm:"size:1024"                        json:"image"`
	CreatedAt    time.Time `                                        json:"created_at"`
	UpdatedAt    time.Time `                                        json:"updated_at"`
}

// RefreshToken stores the sha256 of an issued refresh token, never the token itself.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"                   json:"id"`
	Token     string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID    uint   `gorm:"index;not null"               json:"user_id"`
	JTI       string `gorm:"size:36;uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"                     json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false"       json:"revoked"`
}
