package usecase

import (
	"context"
	"strings"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
)

// FallbackResponse is returned when no table entry matches.
const FallbackResponse = "Sorry, I don't have an answer for that yet. Our support team can help — open a support chat anytime."

type BotUseCase struct {
	botResponseRepo repository.BotResponseRepository
}

func NewBotUseCase(botResponseRepo repository.BotResponseRepository) *BotUseCase {
	return &BotUseCase{
		botResponseRepo: botResponseRepo,
	}
}

type BotResponseInput struct {
	Keywords []string
	Category string
	Response string
}

// Respond maps inbound text to the first matching canned reply, or the
// fixed fallback. Pure lookup over the stored table; no side effects.
func (uc *BotUseCase) Respond(ctx context.Context, incomingText string) (string, error) {
	entries, err := uc.botResponseRepo.List(ctx)
	if err != nil {
		return "", err
	}
	return MatchResponse(entries, incomingText), nil
}

// MatchResponse walks entries in stored order and returns the response
// of the first entry with a keyword that is a case-insensitive
// substring of any token of the input.
func MatchResponse(entries []*entity.BotResponse, incomingText string) string {
	tokens := strings.Fields(strings.ToLower(incomingText))
	if len(tokens) == 0 {
		return FallbackResponse
	}

	for _, entry := range entries {
		for _, keyword := range entry.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			for _, token := range tokens {
				if strings.Contains(token, keyword) {
					return entry.Response
				}
			}
		}
	}

	return FallbackResponse
}

func (uc *BotUseCase) CreateResponse(ctx context.Context, input BotResponseInput) (*entity.BotResponse, error) {
	if err := validateBotResponseInput(input); err != nil {
		return nil, err
	}

	response := &entity.BotResponse{
		Keywords: input.Keywords,
		Category: input.Category,
		Response: input.Response,
	}

	if err := uc.botResponseRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *BotUseCase) ListResponses(ctx context.Context) ([]*entity.BotResponse, error) {
	return uc.botResponseRepo.List(ctx)
}

func (uc *BotUseCase) GetResponse(ctx context.Context, id string) (*entity.BotResponse, error) {
	return uc.botResponseRepo.GetByID(ctx, id)
}

func (uc *BotUseCase) UpdateResponse(ctx context.Context, id string, input BotResponseInput) (*entity.BotResponse, error) {
	if err := validateBotResponseInput(input); err != nil {
		return nil, err
	}

	response, err := uc.botResponseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response.Keywords = input.Keywords
	response.Category = input.Category
	response.Response = input.Response

	if err := uc.botResponseRepo.Update(ctx, response); err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *BotUseCase) DeleteResponse(ctx context.Context, id string) error {
	if _, err := uc.botResponseRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.botResponseRepo.Delete(ctx, id)
}

func validateBotResponseInput(input BotResponseInput) error {
	hasKeyword := false
	for _, keyword := range input.Keywords {
		if strings.TrimSpace(keyword) != "" {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return errors.BadRequest("At least one keyword is required", nil)
	}
	if strings.TrimSpace(input.Response) == "" {
		return errors.BadRequest("Response text is required", nil)
	}
	return nil
}
