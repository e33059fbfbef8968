package domain

// User types a session can act as.
const (
	UserTypePassenger = "passenger"
	UserTypeDriver    = "driver"
)

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID   int64  `json:"userId"`
	UserType string `json:"userType"`
}
