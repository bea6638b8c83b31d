package employee

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAnnualLeaves = 25

var Departments = []string{
	"Engineering",
	"HR",
	"Finance",
	"Sales",
	"Marketing",
	"Operations",
}

func ValidDepartment(v string) bool {
	for _, d := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

// Employee is the profile specialization of a user with the employee
// role. RemainingLeaves is derived from TotalLeaves and UsedLeaves and
// is recomputed by the service on every save; it is never accepted from
// a caller.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Code       string    `gorm:"column:employee_code;type:varchar(30);uniqueIndex;not null"`
	Department string    `gorm:"type:varchar(50);not null"`

	TotalLeaves     int `gorm:"not null;default:25"`
	UsedLeaves      int `gorm:"not null;default:0"`
	RemainingLeaves int `gorm:"not null;default:25"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User *UserRef `gorm:"foreignKey:UserID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}

// UserRef is a read-only projection of the owning identity.
type UserRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
}

func (UserRef) TableName() string {
	return "users"
}
