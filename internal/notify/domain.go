// Package notify delivers in-app notifications produced by background
// report events and tracks per-user unread counts.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// CategoryReport marks notifications produced by the report pipeline.
const CategoryReport = "REPORT"

// Notification is one in-app notification row.
type Notification struct {
	ID          uuid.UUID
	RecipientID int64
	Category    string
	Title       string
	Message     string
	Link        string
	CreatedAt   time.Time
}
