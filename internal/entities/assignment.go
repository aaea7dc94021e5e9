package entities

import "time"

type TokenStatus string

const (
	TokenPending  TokenStatus = "pending"
	TokenAccepted TokenStatus = "accepted"
	TokenDeclined TokenStatus = "declined"
)

type AssignmentAction string

const (
	ActionAccept  AssignmentAction = "accept"
	ActionDecline AssignmentAction = "decline"
)

// Status returns the terminal token status the action leads to.
func (a AssignmentAction) Status() (TokenStatus, bool) {
	switch a {
	case ActionAccept:
		return TokenAccepted, true
	case ActionDecline:
		return TokenDeclined, true
	}
	return "", false
}

// AssignmentToken is a single-use credential letting an external
// translator accept or decline one specific order.
type AssignmentToken struct {
	Token        string
	OrderID      string
	TranslatorID string
	Status       TokenStatus
	CreatedAt    time.Time
	RespondedAt  *time.Time
}
