package domain

// Role strings as issued by the identity provider. They are compared as literals;
// the policy package decides what each one may do.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleEvaluator   = "evaluator"
	RoleScreener    = "screener"
	RoleReviewer    = "reviewer"
	RoleHost        = "host"
	RoleApplicant   = "applicant"
)

// Actor is the resolved caller of a request.
type Actor struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Profile is the contact record of a user, used for message recipients.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
