package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"recipebuilder/recipe"
)

// File writes each card to <Dir>/<card id>.<ext>.
type File struct {
	Dir    string
	Format string
}

func NewFile(dir, format string) *File {
	return &File{Dir: dir, Format: format}
}

func (f *File) Publish(ctx context.Context, card recipe.Card) error {
	ext, err := recipe.Extension(f.Format)
	if err != nil {
		return err
	}
	data, err := card.Encode(f.Format)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create publish dir: %w", err)
	}
	path := filepath.Join(f.Dir, card.ID+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write card: %w", err)
	}
	return nil
}
