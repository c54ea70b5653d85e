package repository

import (
	"context"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// TokenRepository persists the device's token pair across restarts.
// Load returns an empty pair when nothing has been saved yet.
type TokenRepository interface {
	Load(ctx context.Context) (model.TokenPair, error)
	Save(ctx context.Context, pair model.TokenPair) error
	Clear(ctx context.Context) error
}
