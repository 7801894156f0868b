package models

import "time"

// Activity event types.
const (
	EventRegister       = "REGISTER"
	EventLogin          = "LOGIN"
	EventLogout         = "LOGOUT"
	EventExpenseAdded   = "EXPENSE_ADDED"
	EventExpenseUpdated = "EXPENSE_UPDATED"
	EventExpenseDeleted = "EXPENSE_DELETED"
)

// ActivityEvent is a single entry of a user's activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	UserID      int64     `json:"user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // REGISTER | LOGIN | LOGOUT | EXPENSE_*
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
