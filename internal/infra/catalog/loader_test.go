//go:build !integration

package catalog

import (
	"errors"
	"strings"
	"testing"

	"telegram-aroma-oracle/internal/domain"
)

const sampleCSV = `name,emoji,physical,emotional,mantra,background_color,audio_cue
Lavender,🌿,Calms the skin,Eases the mind,I am at peace,#b57edc,calm.mp3
Mint,🍃,Cools and refreshes,Sharpens focus,I am clear,#98ff98,
Rose,🌹,,Opens the heart,I am loved,#ff007f,rose.mp3
`

func TestLoad(t *testing.T) {
	t.Run("parses rows in order with contiguous ids", func(t *testing.T) {
		c, err := Load(strings.NewReader(sampleCSV))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 3 {
			t.Fatalf("expected 3 oils, got %d", c.Len())
		}
		oil, ok := c.Lookup(1)
		if !ok {
			t.Fatal("expected id 1 to resolve")
		}
		if oil.Name != "Mint" || oil.Emoji != "🍃" || oil.Mantra != "I am clear" {
			t.Errorf("unexpected record at id 1: %+v", oil)
		}
		// empty fields are valid values
		rose, _ := c.Lookup(2)
		if rose.PhysicalDescription != "" {
			t.Errorf("expected empty physical description, got %q", rose.PhysicalDescription)
		}
	})

	t.Run("empty input fails with ErrEmptyCatalog", func(t *testing.T) {
		if _, err := Load(strings.NewReader("")); !errors.Is(err, domain.ErrEmptyCatalog) {
			t.Fatalf("expected ErrEmptyCatalog, got %v", err)
		}
	})

	t.Run("header-only input fails with ErrEmptyCatalog", func(t *testing.T) {
		in := "name,emoji,physical,emotional,mantra,background_color,audio_cue\n"
		if _, err := Load(strings.NewReader(in)); !errors.Is(err, domain.ErrEmptyCatalog) {
			t.Fatalf("expected ErrEmptyCatalog, got %v", err)
		}
	})

	t.Run("wrong header is rejected", func(t *testing.T) {
		in := "title,emoji,physical,emotional,mantra,background_color,audio_cue\nA,,,,,,\n"
		if _, err := Load(strings.NewReader(in)); err == nil {
			t.Fatal("expected header error")
		}
	})

	t.Run("malformed row is rejected", func(t *testing.T) {
		in := sampleCSV + "too,few,fields\n"
		if _, err := Load(strings.NewReader(in)); err == nil {
			t.Fatal("expected row error")
		}
	})
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("does/not/exist.csv"); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
