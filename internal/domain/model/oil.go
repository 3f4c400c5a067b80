package model

import (
	"math/rand"

	"telegram-aroma-oracle/internal/domain"
)

// OilRecord is one catalog entry: a single reading the bot can return.
// Records are loaded once at startup and never mutated afterwards.
// Any field except ID may be empty.
type OilRecord struct {
	ID                   int
	Name                 string
	Emoji                string
	PhysicalDescription  string
	EmotionalDescription string
	Mantra               string
	BackgroundColor      string
	AudioCue             string
}

// Catalog is an immutable ordered collection of oil records. IDs are
// assigned from load order, contiguous from 0, so slice position is the
// lookup key.
type Catalog struct {
	oils []OilRecord
}

// NewCatalog builds a catalog from records in load order, overwriting each
// record's ID with its position.
func NewCatalog(oils []OilRecord) *Catalog {
	owned := make([]OilRecord, len(oils))
	copy(owned, oils)
	for i := range owned {
		owned[i].ID = i
	}
	return &Catalog{oils: owned}
}

func (c *Catalog) Len() int { return len(c.oils) }

// PickRandom returns a uniformly random record (with replacement).
func (c *Catalog) PickRandom() (OilRecord, error) {
	if len(c.oils) == 0 {
		return OilRecord{}, domain.ErrEmptyCatalog
	}
	return c.oils[rand.Intn(len(c.oils))], nil
}

// Lookup resolves an oil by id. The second return is false when the id is
// outside the loaded range (e.g. a save made against a larger catalog).
func (c *Catalog) Lookup(id int) (OilRecord, bool) {
	if id < 0 || id >= len(c.oils) {
		return OilRecord{}, false
	}
	return c.oils[id], true
}
