// Package store persists the single activity/user document.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"swagplan/internal/models"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Store loads and saves the whole document at once
type Store interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// Guarded serializes read-modify-write cycles against a Store within one process
type Guarded struct {
	store Store
	mu    sync.Mutex
}

// NewGuarded wraps a store
func NewGuarded(s Store) *Guarded {
	return &Guarded{store: s}
}

// View loads the document and passes it to fn without saving
func (g *Guarded) View(ctx context.Context, fn func(doc *models.Document) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update loads the document, applies fn and saves the result once.
// Nothing is written when fn returns an error.
func (g *Guarded) Update(ctx context.Context, fn func(doc *models.Document) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc, err := g.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := g.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (g *Guarded) load(ctx context.Context) (*models.Document, error) {
	doc, err := g.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}
