package entity

import "time"

// MaxMessageContentLength bounds the content of a single chat message.
const MaxMessageContentLength = 1000

// Message is immutable once created except for ReadBy, which only grows.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	RoomID     string    `json:"room_id" firestore:"roomId"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	SenderRole string    `json:"sender_role" firestore:"senderRole"`
	Content    string    `json:"content" firestore:"content"`
	Type       RoomType  `json:"type" firestore:"type"` // mirrors the owning room type
	ReadBy     []string  `json:"read_by" firestore:"readBy"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
