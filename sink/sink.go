package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recipebuilder"
	"recipebuilder/recipe"
)

// Multi publishes to every publisher in order and joins their errors.
type Multi []recipebuilder.Publisher

func (m Multi) Publish(ctx context.Context, card recipe.Card) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, card); err != nil {
			slog.Warn("PUBLISH: Sink failed", "sink", fmt.Sprintf("%T", p), "card_id", card.ID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory is a simple in-memory implementation for testing
type Memory struct {
	Cards []recipe.Card
	err   error
}

func NewMemory() *Memory {
	return &Memory{}
}

func NewMemoryWithError() *Memory {
	return &Memory{err: errors.New("sink unavailable")}
}

func (m *Memory) Publish(ctx context.Context, card recipe.Card) error {
	if m.err != nil {
		return m.err
	}
	m.Cards = append(m.Cards, card)
	return nil
}
