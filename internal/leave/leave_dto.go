package leave

type ApplyLeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// ListQuery carries the already-parsed query parameters; the service
// clamps paging and drops unknown status values.
type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LeaveResponse struct {
	ID        string         `json:"id"`
	Employee  *OwnerResponse `json:"employee,omitempty"`
	LeaveType string         `json:"leaveType"`
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Days      int            `json:"days"`
	Reason    string         `json:"reason"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

type DashboardStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
