package domain

import "time"

// ExpenseAction is the kind of mutation a notification describes
type ExpenseAction string

const (
	ActionCreate ExpenseAction = "CREATE"
	ActionUpdate ExpenseAction = "UPDATE"
	ActionDelete ExpenseAction = "DELETE"
)

// FieldChange records an old to new transition of a single expense field
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// ExpenseNotification is the payload handed to the notification pipeline
// after a successful expense mutation
type ExpenseNotification struct {
	Action       ExpenseAction `json:"action"`
	ActionDate   time.Time     `json:"actionDate"`
	Expense      *Expense      `json:"expense"`
	CategoryName string        `json:"categoryName,omitempty"`
	Changes      []FieldChange `json:"changes,omitempty"`
	UserEmail    string        `json:"userEmail"`
}

// EmailMessage is a rendered notification ready for queue publish
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
