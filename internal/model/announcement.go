package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaxAnnouncementList caps the number of announcements returned by a list.
const MaxAnnouncementList = 200

// Category classifies an announcement.
type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryAssignment   Category = "assignment"
	CategoryEvent        Category = "event"
	CategoryUrgent       Category = "urgent"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAnnouncement, CategoryAssignment, CategoryEvent, CategoryUrgent:
		return true
	}
	return false
}

// AttachmentKind is the file type of an attachment.
type AttachmentKind string

const (
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentDoc   AttachmentKind = "doc"
	AttachmentImage AttachmentKind = "image"
	AttachmentZip   AttachmentKind = "zip"
)

// Attachment is file metadata only; no blob is stored.
type Attachment struct {
	Name string         `json:"name" validate:"required,max=255"`
	Kind AttachmentKind `json:"type" validate:"required,oneof=pdf doc image zip"`
	Size string         `json:"size" validate:"required,max=32"`
}

// UnmarshalJSON accepts size as either a string or a number; a number is
// kept in its literal form ("1024").
func (a *Attachment) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Kind AttachmentKind  `json:"type"`
		Size json.RawMessage `json:"size"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	size, err := attachmentSize(raw.Size)
	if err != nil {
		return err
	}
	*a = Attachment{Name: raw.Name, Kind: raw.Kind, Size: size}
	return nil
}

func attachmentSize(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("attachment size: %w", err)
	}
	return n.String(), nil
}

// Announcement is a content item created by a teacher.
type Announcement struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Category    Category     `json:"category"`
	Department  string       `json:"department"`
	CreatedAt   time.Time    `json:"createdAt"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Attachments []Attachment `json:"attachments"`
	Image       *string      `json:"image,omitempty"`
	// Author and AuthorRole are snapshots of the creator at creation time.
	Author     string `json:"author"`
	AuthorRole string `json:"authorRole"`
	CreatedBy  string `json:"createdBy,omitempty"`
}

// Public strips the owner reference for list responses.
func (a Announcement) Public() Announcement {
	a.CreatedBy = ""
	return a
}

// CreateAnnouncementRequest is the payload for creating an announcement.
// Authorship fields are deliberately absent. The optional fields are kept raw
// so that malformed values can be dropped instead of failing the request.
type CreateAnnouncementRequest struct {
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Category    string          `json:"category"`
	Department  string          `json:"department"`
	DueDate     json.RawMessage `json:"dueDate,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
	Image       json.RawMessage `json:"image,omitempty"`
}
