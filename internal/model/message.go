package model

import "time"

// Message status values.
const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// ValidStatus reports whether s is one of the recognized status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnread, StatusRead, StatusArchived:
		return true
	}
	return false
}

// Message represents an inquiry or booking request submitted via the
// public contact form.
type Message struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	Message       string    `json:"message"`
	Service       string    `json:"service,omitempty"`
	PreferredDate string    `json:"preferred_date,omitempty"`
	PreferredTime string    `json:"preferred_time,omitempty"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	Status        string    `json:"status"` // "unread" | "read" | "archived"
	CreatedAt     time.Time `json:"created_at"`
}

// MessageListOptions carries filter and pagination parameters for listing messages.
type MessageListOptions struct {
	// Status filters by message status: "", "all", "unread", "read", "archived".
	// Empty string and "all" return all messages.
	Status string
	// Search matches case-insensitively against name, email and message body.
	Search string
	Limit  int
	Offset int
}

// MessageStats holds the admin dashboard counters.
type MessageStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Today  int `json:"today"`
	Week   int `json:"week"`
}
