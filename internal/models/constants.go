package models

// Message limits
const (
	// Placeholder is the only substitution token a Template may carry.
	Placeholder = "{customer_name}"
	// PlaceholderKey is the name between the braces of Placeholder.
	PlaceholderKey = "customer_name"
	// MaxMessageLength is counted in characters, not bytes.
	MaxMessageLength = 140
)

// DefaultNewsIcon is attached to every generated message.
const DefaultNewsIcon = "https://digitalinnovationone.github.io/santander-dev-week-2023-api/icons/credit.svg"

// Input column names
const (
	ColumnUserID  = "UserID"
	ColumnName    = "Name"
	ColumnBalance = "Balance"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
