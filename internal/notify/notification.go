// Package notify delivers transient message notifications to clients over
// websocket connections keyed by wallet identity.
package notify

const (
	// EventNewMessage is the event name pushed to clients.
	EventNewMessage = "newMessageNotification"

	previewLimit      = 80
	defaultDurationMs = 5000
)

// MessageBody carries the chat message content of a push.
type MessageBody struct {
	Content string `json:"content"`
}

// MessageNotification is a server-side push addressed to a wallet identity.
type MessageNotification struct {
	To            string      `json:"to"`
	From          string      `json:"from"`
	Message       MessageBody `json:"message"`
	AppointmentID string      `json:"appointmentId,omitempty"`
}

// Notification is the transient payload delivered to the client: sender, a
// truncated message preview, and how long the client should display it.
type Notification struct {
	Event         string `json:"event"`
	From          string `json:"from"`
	Preview       string `json:"preview"`
	AppointmentID string `json:"appointmentId,omitempty"`
	DurationMs    int    `json:"durationMs"`
}

// ToNotification builds the client payload from a push.
func (m MessageNotification) ToNotification() Notification {
	return Notification{
		Event:         EventNewMessage,
		From:          m.From,
		Preview:       preview(m.Message.Content),
		AppointmentID: m.AppointmentID,
		DurationMs:    defaultDurationMs,
	}
}

// preview caps the content at previewLimit runes, marking truncation with an
// ellipsis.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}
