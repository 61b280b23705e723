package identity

// Project is the fixed synthetic project every session belongs to.
type Project struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// UserSummary is the caller-visible slice of a user record.
type UserSummary struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session is the result of a successful login.
type Session struct {
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
	Project Project     `json:"project"`
}

const (
	ProjectId   = "mock-project"
	ProjectName = "MockProject"
)
