package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokapasar/internal/domain/entity"
)

func TestMatchResponse(t *testing.T) {
	entries := []*entity.BotResponse{
		{ID: "1", Keywords: []string{"shipping", "delivery"}, Response: "Orders ship within 2 days."},
		{ID: "2", Keywords: []string{"refund"}, Response: "Refunds take 3 business days."},
		{ID: "3", Keywords: []string{"ship"}, Response: "Never reached: entry 1 wins on order."},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"exact keyword", "what about shipping", "Orders ship within 2 days."},
		{"case insensitive", "REFUND please", "Refunds take 3 business days."},
		{"keyword inside token", "shipping?", "Orders ship within 2 days."},
		{"first entry in stored order wins", "ship my shipping refund", "Orders ship within 2 days."},
		{"no match falls back", "qwertyuiop", FallbackResponse},
		{"empty input falls back", "", FallbackResponse},
		{"whitespace only falls back", "   \t ", FallbackResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchResponse(entries, tt.text))
		})
	}
}

func TestMatchResponseSkipsBlankKeywords(t *testing.T) {
	entries := []*entity.BotResponse{
		{ID: "1", Keywords: []string{"", "  "}, Response: "unreachable"},
		{ID: "2", Keywords: []string{"hello"}, Response: "Hi there!"},
	}

	assert.Equal(t, "Hi there!", MatchResponse(entries, "hello"))
	assert.Equal(t, FallbackResponse, MatchResponse(entries, "anything"))
}

func TestBotResponseCRUD(t *testing.T) {
	repo := newFakeBotResponseRepository()
	uc := NewBotUseCase(repo)
	ctx := context.Background()

	created, err := uc.CreateResponse(ctx, BotResponseInput{
		Keywords: []string{"payment"},
		Category: "billing",
		Response: "We accept bank transfer and e-wallets.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := uc.GetResponse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Response, got.Response)

	updated, err := uc.UpdateResponse(ctx, created.ID, BotResponseInput{
		Keywords: []string{"payment", "pay"},
		Category: "billing",
		Response: "We accept bank transfer, e-wallets, and cards.",
	})
	require.NoError(t, err)
	assert.Len(t, updated.Keywords, 2)

	list, err := uc.ListResponses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteResponse(ctx, created.ID))

	_, err = uc.GetResponse(ctx, created.ID)
	assert.ErrorContains(t, err, "NOT_FOUND")
}

func TestBotResponseValidation(t *testing.T) {
	uc := NewBotUseCase(newFakeBotResponseRepository())
	ctx := context.Background()

	_, err := uc.CreateResponse(ctx, BotResponseInput{
		Keywords: []string{"  ", ""},
		Response: "text",
	})
	assert.ErrorContains(t, err, "BAD_REQUEST")

	_, err = uc.CreateResponse(ctx, BotResponseInput{
		Keywords: []string{"valid"},
		Response: "   ",
	})
	assert.ErrorContains(t, err, "BAD_REQUEST")
}

func TestDeleteResponseUnknownID(t *testing.T) {
	uc := NewBotUseCase(newFakeBotResponseRepository())

	err := uc.DeleteResponse(context.Background(), "missing")
	assert.ErrorContains(t, err, "NOT_FOUND")
}
