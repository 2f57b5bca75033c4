package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/infrastructure/ratelimit"
	ws "lokapasar/internal/infrastructure/websocket"
	"lokapasar/pkg/errors"
)

type fakeChatRepository struct {
	rooms    []*entity.Room
	messages map[string][]*entity.Message
	seq      int
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepository) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeChatRepository) CreateRoom(ctx context.Context, room *entity.Room) error {
	room.ID = r.nextID("room")
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt

	ids := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		ids = append(ids, p.UserID)
	}
	room.ParticipantIDs = ids

	r.rooms = append(r.rooms, room)
	return nil
}

func (r *fakeChatRepository) GetRoomByID(ctx context.Context, id string) (*entity.Room, error) {
	for _, room := range r.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, errors.NotFound("Room", nil)
}

func (r *fakeChatRepository) FindActiveRoomByTypeAndParticipant(ctx context.Context, roomType entity.RoomType, userID string) (*entity.Room, error) {
	for _, room := range r.rooms {
		if room.Type == roomType && room.IsActive && room.HasParticipant(userID) {
			return room, nil
		}
	}
	return nil, errors.NotFound("Room", nil)
}

func (r *fakeChatRepository) ListRoomsByType(ctx context.Context, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error) {
	var matched []*entity.Room
	for _, room := range r.rooms {
		if room.Type == roomType {
			matched = append(matched, room)
		}
	}
	return paginateRooms(matched, limit, offset)
}

func (r *fakeChatRepository) ListRoomsByParticipant(ctx context.Context, userID string, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error) {
	var matched []*entity.Room
	for _, room := range r.rooms {
		if room.Type == roomType && room.HasParticipant(userID) {
			matched = append(matched, room)
		}
	}
	return paginateRooms(matched, limit, offset)
}

func paginateRooms(rooms []*entity.Room, limit, offset int) ([]*entity.Room, int64, error) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].LastMessageAt.After(rooms[j].LastMessageAt)
	})

	total := int64(len(rooms))
	if offset >= len(rooms) {
		return nil, total, nil
	}
	end := len(rooms)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rooms[offset:end], total, nil
}

func (r *fakeChatRepository) UpdateRoom(ctx context.Context, room *entity.Room) error {
	for i, existing := range r.rooms {
		if existing.ID == room.ID {
			room.UpdatedAt = time.Now()
			r.rooms[i] = room
			return nil
		}
	}
	return errors.NotFound("Room", nil)
}

func (r *fakeChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	message.ID = r.nextID("msg")
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages[message.RoomID] = append(r.messages[message.RoomID], message)
	return nil
}

func (r *fakeChatRepository) ListMessagesByRoom(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error) {
	all := r.messages[roomID]
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *fakeChatRepository) MarkMessagesRead(ctx context.Context, roomID, userID string) error {
	for _, message := range r.messages[roomID] {
		if !message.ReadByUser(userID) {
			message.ReadBy = append(message.ReadBy, userID)
		}
	}
	return nil
}

type fakeUserRepository struct {
	users map[string]*entity.User
}

func newFakeUserRepository(users ...*entity.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

type fakeBotResponseRepository struct {
	entries []*entity.BotResponse
	seq     int
}

func newFakeBotResponseRepository() *fakeBotResponseRepository {
	return &fakeBotResponseRepository{}
}

func (r *fakeBotResponseRepository) Create(ctx context.Context, response *entity.BotResponse) error {
	r.seq++
	response.ID = fmt.Sprintf("bot-response-%d", r.seq)
	response.CreatedAt = time.Now()
	response.UpdatedAt = response.CreatedAt
	r.entries = append(r.entries, response)
	return nil
}

func (r *fakeBotResponseRepository) GetByID(ctx context.Context, id string) (*entity.BotResponse, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, errors.NotFound("Bot response", nil)
}

func (r *fakeBotResponseRepository) List(ctx context.Context) ([]*entity.BotResponse, error) {
	return append([]*entity.BotResponse(nil), r.entries...), nil
}

func (r *fakeBotResponseRepository) Update(ctx context.Context, response *entity.BotResponse) error {
	for i, entry := range r.entries {
		if entry.ID == response.ID {
			response.UpdatedAt = time.Now()
			r.entries[i] = response
			return nil
		}
	}
	return errors.NotFound("Bot response", nil)
}

func (r *fakeBotResponseRepository) Delete(ctx context.Context, id string) error {
	for i, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("Bot response", nil)
}

type chatTestEnv struct {
	chatRepo *fakeChatRepository
	userRepo *fakeUserRepository
	botRepo  *fakeBotResponseRepository
	bot      *BotUseCase
	chat     *ChatUseCase
}

func newChatTestEnv() *chatTestEnv {
	chatRepo := newFakeChatRepository()
	userRepo := newFakeUserRepository(
		&entity.User{ID: "user-1", Email: "budi@example.com", Username: "budi", Role: entity.RoleUser, Status: "active"},
		&entity.User{ID: "user-2", Email: "sari@example.com", Username: "sari", Role: entity.RoleUser, Status: "active"},
		&entity.User{ID: "admin-1", Email: "cs@example.com", Username: "cs", Role: entity.RoleAdmin, Status: "active"},
	)
	botRepo := newFakeBotResponseRepository()

	bot := NewBotUseCase(botRepo)
	chat := NewChatUseCase(chatRepo, userRepo, bot, ws.NewManager(), ratelimit.NewRateLimiter())

	return &chatTestEnv{
		chatRepo: chatRepo,
		userRepo: userRepo,
		botRepo:  botRepo,
		bot:      bot,
		chat:     chat,
	}
}
