package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
)

const (
	maxFlashcardLimit = 100
	maxDeckBytes      = 8 << 20
	deckContentType   = "application/json"
)

// ErrNoDeckStorage is returned when a deck upload is attempted without object storage.
var ErrNoDeckStorage = errors.New("object storage is not configured")

// DeckStore is the object storage used for the flashcard deck.
type DeckStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// FlashcardService serves the flashcard deck. The deck comes from object
// storage when configured, otherwise from the catalog.
type FlashcardService struct {
	store   DeckStore
	key     string
	catalog *content.Catalog
}

// NewFlashcardService constructs the service. store may be nil.
func NewFlashcardService(store DeckStore, key string, catalog *content.Catalog) *FlashcardService {
	return &FlashcardService{store: store, key: key, catalog: catalog}
}

// List returns the cards of a category ("" or "all" for every card), capped at
// limit when limit is positive.
func (s *FlashcardService) List(ctx context.Context, category string, limit int) []types.Flashcard {
	deck := s.deck(ctx)

	category = strings.TrimSpace(category)
	filtered := make([]types.Flashcard, 0, len(deck))
	for _, card := range deck {
		if category == "" || strings.EqualFold(category, "all") || card.Category == category {
			filtered = append(filtered, card)
		}
	}

	if limit > maxFlashcardLimit {
		limit = maxFlashcardLimit
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// Upload validates a JSON deck and stores it under the deck key.
func (s *FlashcardService) Upload(ctx context.Context, r io.Reader) (int, error) {
	if s.store == nil {
		return 0, ErrNoDeckStorage
	}
	data, err := io.ReadAll(io.LimitReader(r, maxDeckBytes+1))
	if err != nil {
		return 0, err
	}
	if len(data) > maxDeckBytes {
		return 0, fmt.Errorf("deck exceeds %d bytes", maxDeckBytes)
	}
	deck, err := ParseDeck(data)
	if err != nil {
		return 0, err
	}
	if err := s.store.Put(ctx, s.key, bytes.NewReader(data), int64(len(data)), deckContentType); err != nil {
		return 0, fmt.Errorf("upload deck: %w", err)
	}
	return len(deck), nil
}

func (s *FlashcardService) deck(ctx context.Context) []types.Flashcard {
	if s.store != nil {
		deck, err := s.loadStored(ctx)
		if err == nil {
			return deck
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", s.key).Msg("stored flashcard deck unavailable")
		metrics.FallbackServed.WithLabelValues("flashcards").Inc()
	}
	return s.catalog.Flashcards
}

func (s *FlashcardService) loadStored(ctx context.Context) ([]types.Flashcard, error) {
	rc, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDeckBytes))
	if err != nil {
		return nil, err
	}
	return ParseDeck(data)
}

// ParseDeck decodes a JSON array of flashcards and checks every card.
func ParseDeck(data []byte) ([]types.Flashcard, error) {
	var deck []types.Flashcard
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if len(deck) == 0 {
		return nil, errors.New("deck is empty")
	}
	ids := make(map[string]struct{}, len(deck))
	for i, card := range deck {
		if card.ID == "" || card.Category == "" || card.Question == "" || card.Answer == "" {
			return nil, fmt.Errorf("card %d: id, category, question and answer are required", i)
		}
		if _, dup := ids[card.ID]; dup {
			return nil, fmt.Errorf("card %d: duplicate id %q", i, card.ID)
		}
		ids[card.ID] = struct{}{}
	}
	return deck, nil
}
