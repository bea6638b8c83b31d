package employee

type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"omitempty,min=2,max=100"`
	Department string `json:"department"`
}

type ProfileResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employeeId"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Department      string `json:"department"`
	TotalLeaves     int    `json:"totalLeaves"`
	UsedLeaves      int    `json:"usedLeaves"`
	RemainingLeaves int    `json:"remainingLeaves"`
}
