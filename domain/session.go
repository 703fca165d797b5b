package domain

// SessionContext is the caller identity for a single coordinator call.
// It is always passed explicitly; nothing in this module keeps a current user.
type SessionContext struct {
	Identity    string `json:"identity"`
	DisplayName string `json:"displayName"`
}

func (s SessionContext) Authenticated() bool {
	return s.Identity != ""
}
