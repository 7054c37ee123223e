package websocket

import "github.com/stemsi/campusboard/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only message a feed client may send.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventAnnouncementCreated Event = "announcement.created"
	EventError               Event = "error"
	EventPong                Event = "pong"
)

// AnnouncementEvent is pushed to every feed subscriber when a teacher
// creates an announcement.
type AnnouncementEvent struct {
	Event        Event              `json:"event"`
	Announcement model.Announcement `json:"announcement"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
