package database

import (
	"context"
	"errors"

	"cryptofolio/internal/models"
)

// ErrMissingAmount is returned when a stored holding has no amount.
var ErrMissingAmount = errors.New("holding has no amount")

// ErrNotAnObject is returned when the holdings document is not a JSON object.
var ErrNotAnObject = errors.New("holdings document is not an object")

// Registry persists the full holdings set.
type Registry interface {
	Load(ctx context.Context) (models.Holdings, error)
	Save(ctx context.Context, holdings models.Holdings) error
}
