package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePIC      Role = "pic"
	RoleOperator Role = "operator"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePIC || r == RoleOperator
}

type User struct {
	ID           uint       `gorm:"primaryKey"                       json:"id"`
	Username     string     `gorm:"uniqueIndex;size:120;not null"    json:"username"`
	FullName     string     `gorm:"size:180"                         json:"full_name"`
	Role         Role       `gorm:"size:20;not null;default:operator" json:"role"`
	PasswordHash string     `gorm:"size:255"                         json:"-"` // jangan dikirim ke client
	AvatarURL    string     `gorm:"size:255"                         json:"avatar_url"`
	IsActive     bool       `gorm:"default:true"                     json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
