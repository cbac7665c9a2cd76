package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusAccepted  TaskStatus = "accepted"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task is one unit of requested work. Every status transition writes a
// full snapshot of the row guarded by Version, so concurrent writers
// never interleave partial updates.
type Task struct {
	ID            string         `gorm:"type:varchar(36);primarykey" json:"task_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Tags          []string       `gorm:"type:text;serializer:json" json:"tags"`
	Location      *string        `gorm:"type:varchar(255)" json:"location,omitempty"`
	PreferredTime *time.Time     `json:"preferred_time,omitempty"`
	Status        TaskStatus     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	PostedBy      string         `gorm:"type:varchar(64);not null;index" json:"posted_by"`
	AcceptedBy    *string        `gorm:"type:varchar(64);index" json:"accepted_by,omitempty"`
	AcceptedAt    *time.Time     `json:"accepted_at,omitempty"`
	CompletedBy   *string        `gorm:"type:varchar(64)" json:"completed_by,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Version       uint64         `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Poster *User `gorm:"foreignKey:PostedBy" json:"poster,omitempty"`
}

// BeforeCreate assigns the task id and initial version
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}

// IsTerminal reports whether no further transition may leave the
// current status.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Participants returns the deduplicated set of user ids occupying the
// posted_by, accepted_by and completed_by roles.
func (t *Task) Participants() []string {
	seen := map[string]struct{}{t.PostedBy: {}}
	participants := []string{t.PostedBy}
	for _, ref := range []*string{t.AcceptedBy, t.CompletedBy} {
		if ref == nil {
			continue
		}
		if _, ok := seen[*ref]; ok {
			continue
		}
		seen[*ref] = struct{}{}
		participants = append(participants, *ref)
	}
	return participants
}

// IsParticipant reports whether userID occupies any role on the task
func (t *Task) IsParticipant(userID string) bool {
	for _, p := range t.Participants() {
		if p == userID {
			return true
		}
	}
	return false
}
