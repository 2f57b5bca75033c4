package repository

import (
	"context"

	"lokapasar/internal/domain/entity"
)

type BotResponseRepository interface {
	Create(ctx context.Context, response *entity.BotResponse) error
	GetByID(ctx context.Context, id string) (*entity.BotResponse, error)
	List(ctx context.Context) ([]*entity.BotResponse, error)
	Update(ctx context.Context, response *entity.BotResponse) error
	Delete(ctx context.Context, id string) error
}
