package leave

import (
	"time"

	"github.com/google/uuid"
)

// Canonical status casing is title case, on the wire and in storage.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var LeaveTypes = []string{"sick", "casual", "vacation", "personal", "maternity", "paternity"}

func ValidLeaveType(v string) bool {
	for _, t := range LeaveTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ValidStatus(v string) bool {
	return v == StatusPending || v == StatusApproved || v == StatusRejected
}

// Leave is one leave request. TotalDays is derived from the two dates
// (inclusive of both endpoints) when the record is created and never
// drifts from them; Status only ever moves Pending -> Approved or
// Pending -> Rejected. Records are never deleted.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_leaves_employee_status"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:varchar(500);not null"`

	Status string `gorm:"type:varchar(20);not null;default:'Pending';index;index:idx_leaves_employee_status"`

	CreatedAt time.Time `gorm:"index:idx_leaves_created_at,sort:desc"`
	UpdatedAt time.Time

	Employee *OwnerRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Leave) TableName() string {
	return "leaves"
}

// OwnerRef is the read-time join to the owning identity; the user row
// itself knows nothing about its requests.
type OwnerRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
	Role  string    `gorm:"column:role"`
}

func (OwnerRef) TableName() string {
	return "users"
}
