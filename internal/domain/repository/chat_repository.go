package repository

import (
	"context"

	"lokapasar/internal/domain/entity"
)

type ChatRepository interface {
	// Room methods
	CreateRoom(ctx context.Context, room *entity.Room) error
	GetRoomByID(ctx context.Context, id string) (*entity.Room, error)
	FindActiveRoomByTypeAndParticipant(ctx context.Context, roomType entity.RoomType, userID string) (*entity.Room, error)
	ListRoomsByType(ctx context.Context, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error)
	ListRoomsByParticipant(ctx context.Context, userID string, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error)
	UpdateRoom(ctx context.Context, room *entity.Room) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessagesByRoom(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkMessagesRead(ctx context.Context, roomID, userID string) error
}
