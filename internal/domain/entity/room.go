package entity

import "time"

// RoomType is the closed set of chat room kinds.
type RoomType string

const (
	RoomTypeBot       RoomType = "bot"
	RoomTypeAdmin     RoomType = "admin"
	RoomTypeCommunity RoomType = "community"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeBot, RoomTypeAdmin, RoomTypeCommunity:
		return true
	}
	return false
}

// BotParticipantID is the reserved sender id for bot-authored messages,
// so sender attribution never deals with an absent sender.
const BotParticipantID = "bot"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleBot   = "bot"
)

type Participant struct {
	UserID string `json:"user_id" firestore:"userId"`
	Role   string `json:"role" firestore:"role"` // "user", "admin", "bot"
}

type Room struct {
	ID           string        `json:"id" firestore:"id"`
	Type         RoomType      `json:"type" firestore:"type"`
	Name         string        `json:"name,omitempty" firestore:"name,omitempty"`
	Participants []Participant `json:"participants" firestore:"participants"`
	// ParticipantIDs mirrors Participants for Firestore array-contains queries.
	ParticipantIDs []string  `json:"-" firestore:"participantIds"`
	IsActive       bool      `json:"is_active" firestore:"isActive"`
	LastMessage    string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt  time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (r *Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
