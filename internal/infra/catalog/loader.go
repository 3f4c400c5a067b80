// Package catalog loads the immutable oil catalog from its tabular source.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"telegram-aroma-oracle/internal/domain"
	"telegram-aroma-oracle/internal/domain/model"
)

// Expected CSV header, in order. Empty field values are legal; a row with
// the wrong number of fields is not.
var header = []string{
	"name", "emoji", "physical", "emotional", "mantra", "background_color", "audio_cue",
}

// LoadFile reads the CSV at path and builds the catalog. Any problem here
// is startup-fatal for the caller: a bot with no content has nothing to say.
func LoadFile(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses CSV rows from r into a catalog. IDs are assigned by row order.
func Load(r io.Reader) (*model.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, domain.ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i, col := range header {
		if first[i] != col {
			return nil, fmt.Errorf("catalog header: column %d is %q, want %q", i, first[i], col)
		}
	}

	var oils []model.OilRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog row %d: %w", line, err)
		}
		oils = append(oils, model.OilRecord{
			Name:                 rec[0],
			Emoji:                rec[1],
			PhysicalDescription:  rec[2],
			EmotionalDescription: rec[3],
			Mantra:               rec[4],
			BackgroundColor:      rec[5],
			AudioCue:             rec[6],
		})
	}
	if len(oils) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return model.NewCatalog(oils), nil
}
