package repository

import (
	"context"
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

type firestoreBotResponseRepository struct {
	client *firestore.Client
}

func NewFirestoreBotResponseRepository(client *firestore.Client) repository.BotResponseRepository {
	return &firestoreBotResponseRepository{
		client: client,
	}
}

func (r *firestoreBotResponseRepository) Create(ctx context.Context, response *entity.BotResponse) error {
	if response.ID == "" {
		response.ID = uuid.New().String()
	}

	now := time.Now()
	response.CreatedAt = now
	response.UpdatedAt = now

	_, err := r.client.Collection("bot_responses").Doc(response.ID).Set(ctx, response)
	if err != nil {
		return errors.Internal("Failed to create bot response", err)
	}

	return nil
}

func (r *firestoreBotResponseRepository) GetByID(ctx context.Context, id string) (*entity.BotResponse, error) {
	doc, err := r.client.Collection("bot_responses").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Bot response", err)
		}
		return nil, errors.Internal("Failed to get bot response", err)
	}

	var response entity.BotResponse
	if err := doc.DataTo(&response); err != nil {
		return nil, errors.Internal("Failed to parse bot response data", err)
	}

	return &response, nil
}

// List returns the whole table in creation order; matching walks
// entries first-match-wins, so the order is part of the contract.
func (r *firestoreBotResponseRepository) List(ctx context.Context) ([]*entity.BotResponse, error) {
	iter := r.client.Collection("bot_responses").OrderBy("createdAt", firestore.Asc).Documents(ctx)

	var responses []*entity.BotResponse
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate bot responses", err)
		}

		var response entity.BotResponse
		if err := doc.DataTo(&response); err != nil {
			return nil, errors.Internal("Failed to parse bot response data", err)
		}
		responses = append(responses, &response)
	}

	return responses, nil
}

func (r *firestoreBotResponseRepository) Update(ctx context.Context, response *entity.BotResponse) error {
	response.UpdatedAt = time.Now()

	_, err := r.client.Collection("bot_responses").Doc(response.ID).Set(ctx, response)
	if err != nil {
		return errors.Internal("Failed to update bot response", err)
	}

	return nil
}

func (r *firestoreBotResponseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("bot_responses").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete bot response", err)
	}

	return nil
}
