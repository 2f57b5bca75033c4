package entity

import "time"

// BotResponse is one entry of the keyword-matched canned reply table.
type BotResponse struct {
	ID        string    `json:"id" firestore:"id"`
	Keywords  []string  `json:"keywords" firestore:"keywords"`
	Category  string    `json:"category" firestore:"category"`
	Response  string    `json:"response" firestore:"response"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
