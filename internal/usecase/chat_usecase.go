package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/internal/infrastructure/ratelimit"
	ws "lokapasar/internal/infrastructure/websocket"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	botUseCase  *BotUseCase
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	botUseCase *BotUseCase,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		botUseCase:  botUseCase,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateCommunityRoomInput struct {
	Name           string
	ParticipantIDs []string
}

// GetOrCreateBotRoom returns the user's bot room, creating it on first
// contact. Idempotent: repeated calls return the same active room.
func (uc *ChatUseCase) GetOrCreateBotRoom(ctx context.Context, userID string) (*entity.Room, error) {
	room, err := uc.chatRepo.FindActiveRoomByTypeAndParticipant(ctx, entity.RoomTypeBot, userID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	role, err := uc.resolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	newRoom := &entity.Room{
		Type: entity.RoomTypeBot,
		Participants: []entity.Participant{
			{UserID: userID, Role: role},
			{UserID: entity.BotParticipantID, Role: entity.RoleBot},
		},
		IsActive:      true,
		LastMessageAt: time.Now(),
	}

	if err := uc.chatRepo.CreateRoom(ctx, newRoom); err != nil {
		logger.Error("GetOrCreateBotRoom: failed to create room for user %s: %v", userID, err)
		return nil, err
	}

	return newRoom, nil
}

// GetOrCreateAdminRoom returns the user's open support room, creating
// one if none is active. At most one active admin room exists per user;
// closing it and contacting support again yields a fresh room.
func (uc *ChatUseCase) GetOrCreateAdminRoom(ctx context.Context, userID string) (*entity.Room, error) {
	room, err := uc.chatRepo.FindActiveRoomByTypeAndParticipant(ctx, entity.RoomTypeAdmin, userID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	allowed, _ := uc.rateLimiter.Allow(userID, "create_room")
	if !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before opening another support room")
	}

	role, err := uc.resolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The admin pool is role-based: any admin may read and reply, so
	// the user is the only stored participant.
	newRoom := &entity.Room{
		Type: entity.RoomTypeAdmin,
		Participants: []entity.Participant{
			{UserID: userID, Role: role},
		},
		IsActive:      true,
		LastMessageAt: time.Now(),
	}

	if err := uc.chatRepo.CreateRoom(ctx, newRoom); err != nil {
		logger.Error("GetOrCreateAdminRoom: failed to create room for user %s: %v", userID, err)
		return nil, err
	}

	return newRoom, nil
}

// CreateCommunityRoom creates a named room with an explicit participant
// set. Admin-only (enforced at the route).
func (uc *ChatUseCase) CreateCommunityRoom(ctx context.Context, creatorID string, input CreateCommunityRoomInput) (*entity.Room, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.BadRequest("Community room name is required", nil)
	}

	creatorRole, err := uc.resolveRole(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creatorRole != entity.RoleAdmin {
		return nil, errors.Forbidden("Only admins can create community rooms", nil)
	}

	allowed, _ := uc.rateLimiter.Allow(creatorID, "create_room")
	if !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another room")
	}

	seen := map[string]bool{}
	ids := append([]string{creatorID}, input.ParticipantIDs...)
	var participants []entity.Participant
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		role, err := uc.resolveRole(ctx, id)
		if err != nil {
			return nil, err
		}
		participants = append(participants, entity.Participant{UserID: id, Role: role})
	}

	room := &entity.Room{
		Type:          entity.RoomTypeCommunity,
		Name:          input.Name,
		Participants:  participants,
		IsActive:      true,
		LastMessageAt: time.Now(),
	}

	if err := uc.chatRepo.CreateRoom(ctx, room); err != nil {
		logger.Error("CreateCommunityRoom: failed to create room %q: %v", input.Name, err)
		return nil, err
	}

	return room, nil
}

// ListRooms returns rooms of the given type, ordered by most recent
// message. Admin callers see every room of the type, closed ones
// included; end users see only rooms they participate in.
func (uc *ChatUseCase) ListRooms(ctx context.Context, userID string, roomType entity.RoomType, limit, offset int) ([]*entity.Room, int64, error) {
	if !roomType.Valid() {
		return nil, 0, errors.BadRequest("Unknown room type", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if user.IsAdmin() {
		return uc.chatRepo.ListRoomsByType(ctx, roomType, limit, offset)
	}
	return uc.chatRepo.ListRoomsByParticipant(ctx, userID, roomType, limit, offset)
}

func (uc *ChatUseCase) GetRoom(ctx context.Context, userID, roomID string) (*entity.Room, error) {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, userID, room); err != nil {
		return nil, err
	}
	return room, nil
}

// SetRoomActive toggles close/reopen. Rooms are never hard-deleted;
// isActive=false is the only terminal state.
func (uc *ChatUseCase) SetRoomActive(ctx context.Context, roomID string, isActive bool) (*entity.Room, error) {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	room.IsActive = isActive
	if err := uc.chatRepo.UpdateRoom(ctx, room); err != nil {
		logger.Error("SetRoomActive: failed to update room %s: %v", roomID, err)
		return nil, err
	}

	return room, nil
}

// SendMessage is the single write path for messages. The insert is a
// single document write, so a failed append persists nothing.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID, roomID, content string) (*entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}
	if utf8.RuneCountInString(content) > entity.MaxMessageContentLength {
		return nil, errors.BadRequest("Message content exceeds maximum length", nil)
	}

	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, userID, room); err != nil {
		return nil, err
	}

	// Charge the bucket only once the send will actually be attempted,
	// so rejected requests do not burn the caller's quota.
	allowed, _ := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message")
	}

	role, err := uc.resolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		RoomID:     roomID,
		SenderID:   userID,
		SenderRole: role,
		Content:    content,
		Type:       room.Type,
		ReadBy:     []string{userID},
		CreatedAt:  time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("SendMessage: failed to create message in room %s: %v", roomID, err)
		return nil, err
	}

	uc.touchRoom(ctx, room, message)
	uc.publish(roomID, message)

	if room.Type == entity.RoomTypeBot && userID != entity.BotParticipantID {
		uc.sendBotReply(ctx, room, content)
	}

	return message, nil
}

// sendBotReply appends the responder's reply after the user's message.
// The user message is already persisted, so a failed reply is logged
// and swallowed rather than failing the send.
func (uc *ChatUseCase) sendBotReply(ctx context.Context, room *entity.Room, incoming string) {
	reply, err := uc.botUseCase.Respond(ctx, incoming)
	if err != nil {
		logger.Error("sendBotReply: responder failed for room %s: %v", room.ID, err)
		return
	}

	message := &entity.Message{
		RoomID:     room.ID,
		SenderID:   entity.BotParticipantID,
		SenderRole: entity.RoleBot,
		Content:    reply,
		Type:       room.Type,
		ReadBy:     []string{entity.BotParticipantID},
		CreatedAt:  time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("sendBotReply: failed to create bot message in room %s: %v", room.ID, err)
		return
	}

	uc.touchRoom(ctx, room, message)
	uc.publish(room.ID, message)
}

func (uc *ChatUseCase) touchRoom(ctx context.Context, room *entity.Room, message *entity.Message) {
	room.LastMessage = message.Content
	room.LastMessageAt = message.CreatedAt
	if err := uc.chatRepo.UpdateRoom(ctx, room); err != nil {
		logger.Warn("touchRoom: failed to update room %s metadata: %v", room.ID, err)
	}
}

// publish fans the message out to live subscribers. Delivery failures
// never surface to the sender; history is the recovery path.
func (uc *ChatUseCase) publish(roomID string, message *entity.Message) {
	payload, err := ws.NewMessageEvent(roomID, message)
	if err != nil {
		logger.Error("publish: failed to build event for room %s: %v", roomID, err)
		return
	}
	uc.wsManager.Publish(roomID, payload)
}

// GetRoomMessages returns the room history oldest first. Pagination is
// pure offset/limit, so concatenating pages reproduces the full list.
func (uc *ChatUseCase) GetRoomMessages(ctx context.Context, userID, roomID string, limit, offset int) ([]*entity.Message, int64, error) {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	if err := uc.authorize(ctx, userID, room); err != nil {
		return nil, 0, err
	}

	return uc.chatRepo.ListMessagesByRoom(ctx, roomID, limit, offset)
}

// MarkRoomAsRead acknowledges every message in the room for the user.
// Monotonic and idempotent: readBy only grows.
func (uc *ChatUseCase) MarkRoomAsRead(ctx context.Context, userID, roomID string) error {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := uc.authorize(ctx, userID, room); err != nil {
		return err
	}

	return uc.chatRepo.MarkMessagesRead(ctx, roomID, userID)
}

// CanAccessRoom implements the fan-out authorizer: participants may
// subscribe, and admins may subscribe to any room.
func (uc *ChatUseCase) CanAccessRoom(ctx context.Context, userID, roomID string) error {
	room, err := uc.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	return uc.authorize(ctx, userID, room)
}

func (uc *ChatUseCase) authorize(ctx context.Context, userID string, room *entity.Room) error {
	if room.HasParticipant(userID) {
		return nil
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return errors.Forbidden("User is not a participant in this room", nil)
		}
		return err
	}
	if user.IsAdmin() {
		return nil
	}

	return errors.Forbidden("User is not a participant in this room", nil)
}

func (uc *ChatUseCase) resolveRole(ctx context.Context, userID string) (string, error) {
	if userID == entity.BotParticipantID {
		return entity.RoleBot, nil
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.IsAdmin() {
		return entity.RoleAdmin, nil
	}
	return entity.RoleUser, nil
}
