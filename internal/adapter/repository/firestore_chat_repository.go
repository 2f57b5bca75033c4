package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func participantIDs(room *entity.Room) []string {
	ids := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

func (r *firestoreChatRepository) CreateRoom(ctx context.Context, room *entity.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	room.ParticipantIDs = participantIDs(room)

	_, err := r.client.Collection("rooms").Doc(room.ID).Set(ctx, room)
	if err != nil {
		return errors.Internal("Failed to create room", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetRoomByID(ctx context.Context, id string) (*entity.Room, error) {
	doc, err := r.client.Collection("rooms").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Room", err)
		}
		return nil, errors.Internal("Failed to get room", err)
	}

	var room entity.Room
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse room data", err)
	}

	return &room, nil
}

func (r *firestoreChatRepository) FindActiveRoomByTypeAndParticipant(ctx context.Context, roomType entity.RoomType, userID string) (*entity.Room, error) {
	query := r.client.Collection("rooms").
		Where("type", "==", string(roomType)).
		Where("isActive", "==", true).
		Where("participantIds", "array-contains", userID).
		Limit(1)

	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Room", nil)
		}
		return nil, errors.Internal("Failed to query active room", err)
	}

	var room entity.Room
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse room data", err)
	}

	return &room, nil
}

func (r *firestoreChatRepository) ListRoomsByType(ctx context.Context, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error) {
	query := r.client.Collection("rooms").
		Where("type", "==", string(roomType)).
		OrderBy("lastMessageAt", firestore.Desc)

	return r.collectRooms(ctx, query, limit, offset)
}

func (r *firestoreChatRepository) ListRoomsByParticipant(ctx context.Context, userID string, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error) {
	query := r.client.Collection("rooms").
		Where("participantIds", "array-contains", userID)
	if roomType != "" {
		query = query.Where("type", "==", string(roomType))
	}
	query = query.OrderBy("lastMessageAt", firestore.Desc)

	return r.collectRooms(ctx, query, limit, offset)
}

// collectRooms fetches the full result set and paginates in memory,
// which keeps the total count and the page consistent on one read.
func (r *firestoreChatRepository) collectRooms(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Room, int64, error) {
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching rooms: %v", err)
		return nil, 0, errors.Internal("Failed to fetch rooms", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var rooms []*entity.Room
	for i := start; i < end; i++ {
		var room entity.Room
		if err := allDocs[i].DataTo(&room); err != nil {
			log.Printf("Error parsing room data: %v", err)
			continue // Skip bad data instead of failing
		}
		rooms = append(rooms, &room)
	}

	return rooms, total, nil
}

func (r *firestoreChatRepository) UpdateRoom(ctx context.Context, room *entity.Room) error {
	room.UpdatedAt = time.Now()
	room.ParticipantIDs = participantIDs(room)

	_, err := r.client.Collection("rooms").Doc(room.ID).Set(ctx, room)
	if err != nil {
		return errors.Internal("Failed to update room", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("rooms").Doc(message.RoomID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessagesByRoom(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("rooms").Doc(roomID).Collection("messages").OrderBy("createdAt", firestore.Asc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while counting messages for room %s: %v", roomID, err)
		return nil, 0, errors.Internal("Failed to count messages for room", err)
	}
	total := int64(len(countDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for room %s: %v", roomID, err)
			return nil, 0, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for room %s: %v", roomID, err)
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, total, nil
}

// MarkMessagesRead adds userID to readBy of every message in the room
// that does not contain it yet. Each update is an ArrayUnion, so the
// operation is idempotent per message and a retry after partial
// failure converges to the same state.
func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, roomID, userID string) error {
	iter := r.client.Collection("rooms").Doc(roomID).Collection("messages").Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate messages for read update", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data in room %s: %v", roomID, err)
			continue
		}
		if message.ReadByUser(userID) {
			continue
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "readBy", Value: firestore.ArrayUnion(userID)},
		})
		if err != nil {
			return errors.Internal("Failed to update message read status", err)
		}
	}

	return nil
}
