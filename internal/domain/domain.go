package domain

const (
	RoleEmployee = "employee"
	RoleEmployer = "employer"
)

// ValidRole reports whether v is one of the two closed roles. The
// boundary validates before anything enters the core, so services never
// see an out-of-domain role string.
func ValidRole(v string) bool {
	return v == RoleEmployee || v == RoleEmployer
}

// Caller is the authenticated identity behind a request, extracted from
// the verified token by the auth middleware.
type Caller struct {
	ID    string
	Email string
	Role  string
}

// EnforceRequest is the question asked of the authorization policy.
type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}
