package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lokapasar/internal/usecase"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
)

type BotResponseHandler struct {
	botUseCase *usecase.BotUseCase
}

func NewBotResponseHandler(botUseCase *usecase.BotUseCase) *BotResponseHandler {
	return &BotResponseHandler{
		botUseCase: botUseCase,
	}
}

type botResponseRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1"`
	Category string   `json:"category"`
	Response string   `json:"response" validate:"required"`
}

func (h *BotResponseHandler) CreateResponse(c echo.Context) error {
	var req botResponseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	created, err := h.botUseCase.CreateResponse(c.Request().Context(), usecase.BotResponseInput{
		Keywords: req.Keywords,
		Category: req.Category,
		Response: req.Response,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, created)
}

func (h *BotResponseHandler) ListResponses(c echo.Context) error {
	responses, err := h.botUseCase.ListResponses(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, responses)
}

func (h *BotResponseHandler) GetResponse(c echo.Context) error {
	found, err := h.botUseCase.GetResponse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, found)
}

func (h *BotResponseHandler) UpdateResponse(c echo.Context) error {
	var req botResponseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	updated, err := h.botUseCase.UpdateResponse(c.Request().Context(), c.Param("id"), usecase.BotResponseInput{
		Keywords: req.Keywords,
		Category: req.Category,
		Response: req.Response,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *BotResponseHandler) DeleteResponse(c echo.Context) error {
	if err := h.botUseCase.DeleteResponse(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
