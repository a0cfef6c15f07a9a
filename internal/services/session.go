package services

import "github.com/dmitrijs2005/tikbook/internal/models"

// Session is the explicit signed-in context passed to every Coordinator
// operation. Only the Coordinator changes it.
type Session struct {
	user  *models.User
	token string
}

// NewSession returns an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) Authenticated() bool {
	return s != nil && s.user != nil
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	if s == nil {
		return nil
	}
	return s.user.Clone()
}

// Token returns the signed marker stored in the session slot.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}
