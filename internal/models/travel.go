// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Travel moderation states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is a known moderation state.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// StringList is an ordered list of opaque blob references persisted as a
// JSON-encoded text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
}

// Travel represents a travel diary entry subject to moderation.
//
// Status invariants: RejectReason is non-empty only while Status is
// rejected; ReviewedByID/ReviewedAt are written only by a review
// transition. Soft-deleted rows (IsDeleted) are hidden from every read
// path and retained for audit only.
type Travel struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Images       StringList `gorm:"type:text;not null" json:"images"`
	Video        string     `json:"video"`
	AuthorID     uint       `gorm:"not null;index" json:"author_id"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Status       string     `gorm:"not null;default:pending;index" json:"status"`
	RejectReason string     `json:"reject_reason"`
	ReviewedByID *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	IsDeleted    bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the travel's author.
func (t *Travel) IsOwnedBy(userID uint) bool {
	return t.AuthorID == userID
}
