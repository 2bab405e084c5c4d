package http

import (
	"github.com/darolishes/bondbridge/internal/entities"
)

// This file consolidates the store interfaces HTTP controllers depend on.
// Each controller only sees the operations it needs; the database packages
// provide the concrete implementations.

// CardSetReader provides read access to imported card sets.
type CardSetReader interface {
	ListCardSets() ([]entities.CardSet, error)
	GetBySetID(setID string) (*entities.CardSet, error)
}

// CardSetDeleter removes a card set and its cards.
type CardSetDeleter interface {
	DeleteBySetID(setID string) error
}

// CardSetStore combines the card-set operations the API exposes.
type CardSetStore interface {
	CardSetReader
	CardSetDeleter
}

// SessionStore provides read access to import session records.
type SessionStore interface {
	List(limit, offset int) ([]entities.ImportSession, int64, error)
}
