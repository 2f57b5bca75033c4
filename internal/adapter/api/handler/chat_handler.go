package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
	"lokapasar/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createRoomRequest struct {
	Type           string   `json:"type" validate:"required,oneof=bot admin community"`
	Name           string   `json:"name"`
	ParticipantIDs []string `json:"participant_ids"`
}

type updateRoomRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// CreateRoom creates or returns a room. Bot and admin types are
// idempotent per caller; community rooms are explicit admin creations.
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	ctx := c.Request().Context()

	var (
		room *entity.Room
		err  error
	)
	switch entity.RoomType(req.Type) {
	case entity.RoomTypeBot:
		room, err = h.chatUseCase.GetOrCreateBotRoom(ctx, userID)
	case entity.RoomTypeAdmin:
		room, err = h.chatUseCase.GetOrCreateAdminRoom(ctx, userID)
	case entity.RoomTypeCommunity:
		room, err = h.chatUseCase.CreateCommunityRoom(ctx, userID, usecase.CreateCommunityRoomInput{
			Name:           req.Name,
			ParticipantIDs: req.ParticipantIDs,
		})
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

// ListRooms returns rooms of a type, scoped by the caller's role.
func (h *ChatHandler) ListRooms(c echo.Context) error {
	userID := c.Get("uid").(string)
	roomType := entity.RoomType(c.QueryParam("type"))
	params := utils.GetPaginationParams(c)

	rooms, total, err := h.chatUseCase.ListRooms(c.Request().Context(), userID, roomType, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rooms, total, params.Page, params.PageSize)
}

func (h *ChatHandler) GetRoom(c echo.Context) error {
	userID := c.Get("uid").(string)
	roomID := c.Param("id")

	room, err := h.chatUseCase.GetRoom(c.Request().Context(), userID, roomID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

// UpdateRoom toggles close/reopen. Admin-only (route-level).
func (h *ChatHandler) UpdateRoom(c echo.Context) error {
	roomID := c.Param("id")

	var req updateRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	room, err := h.chatUseCase.SetRoomActive(c.Request().Context(), roomID, *req.IsActive)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

// SendMessage appends a message to a room.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	roomID := c.Param("id")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, roomID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetRoomMessages returns room history oldest first.
func (h *ChatHandler) GetRoomMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	roomID := c.Param("id")
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetRoomMessages(c.Request().Context(), userID, roomID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

// MarkRoomAsRead acknowledges the whole room for the caller.
func (h *ChatHandler) MarkRoomAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	roomID := c.Param("id")

	if err := h.chatUseCase.MarkRoomAsRead(c.Request().Context(), userID, roomID); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
