// Package cardsets provides database operations for canonical card sets.
//
// The repository is the pipeline's Store collaborator: it receives each
// finished set exactly once and backs the conflict checker's name listing.
//
// # Interface Implementation
//
//	var _ cardimport.CardSetStore = (*Repository)(nil)
//	var _ cardimport.ExistingSetNames = (*Repository)(nil)
package cardsets

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/darolishes/bondbridge/internal/entities"
)

// Repository handles all card-set database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new card-set repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveCardSet persists a canonical set with all its cards.
func (r *Repository) SaveCardSet(set *entities.CardSet) error {
	if err := r.db.Create(set).Error; err != nil {
		return fmt.Errorf("saving card set %q: %w", set.Name, err)
	}
	return nil
}

// ListSetNames returns the names of all imported sets, for conflict checks.
func (r *Repository) ListSetNames() ([]string, error) {
	var names []string
	err := r.db.Model(&entities.CardSet{}).Pluck("name", &names).Error
	return names, err
}

// ListCardSets returns all sets without their cards. Metadata is embedded,
// so listings can show counts without loading card rows.
func (r *Repository) ListCardSets() ([]entities.CardSet, error) {
	var sets []entities.CardSet
	err := r.db.Order("imported_at DESC").Find(&sets).Error
	return sets, err
}

// GetBySetID retrieves one set with its cards in position order.
func (r *Repository) GetBySetID(setID string) (*entities.CardSet, error) {
	var set entities.CardSet
	err := r.db.Preload("Cards", func(db *gorm.DB) *gorm.DB {
		return db.Order("cards.position ASC")
	}).Where("set_id = ?", setID).First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// DeleteBySetID removes a set and its cards.
func (r *Repository) DeleteBySetID(setID string) error {
	var set entities.CardSet
	err := r.db.Where("set_id = ?", setID).First(&set).Error
	if err != nil {
		return err
	}
	if err := r.db.Where("card_set_id = ?", set.ID).Delete(&entities.Card{}).Error; err != nil {
		return fmt.Errorf("deleting cards of set %q: %w", setID, err)
	}
	return r.db.Delete(&set).Error
}

// UpdateMetadata replaces a set's derived metadata block. Cards are the
// source of truth; this is called after they change.
func (r *Repository) UpdateMetadata(setID string, meta entities.SetMetadata) error {
	var set entities.CardSet
	if err := r.db.Where("set_id = ?", setID).First(&set).Error; err != nil {
		return err
	}
	set.Metadata = meta
	if err := r.db.Save(&set).Error; err != nil {
		return fmt.Errorf("updating metadata of set %q: %w", setID, err)
	}
	return nil
}
