package auth

import (
	"time"

	"github.com/google/uuid"

	"leavedesk/internal/domain"
)

// User is the identity record. The password column holds only the
// bcrypt hash and is never serialized outward. Role is immutable after
// creation and users are never deleted.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string    `gorm:"type:varchar(255);not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:'employee'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsEmployee() bool {
	return u.Role == domain.RoleEmployee
}
