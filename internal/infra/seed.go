package infra

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/repository"
	"gopkg.in/yaml.v3"
)

//go:embed seed/demo.yaml
var demoSeed []byte

// Seed is the initial content of a fresh ledger.
type Seed struct {
	Players []string     `yaml:"players"`
	Reasons []SeedReason `yaml:"reasons"`
	Fines   []SeedFine   `yaml:"fines"`
}

// SeedReason is a reason entry in a seed file.
type SeedReason struct {
	Naam   string  `yaml:"naam"`
	Bedrag float64 `yaml:"bedrag"`
}

// SeedFine is a fine entry in a seed file.
type SeedFine struct {
	Speler string  `yaml:"speler"`
	Bedrag float64 `yaml:"bedrag"`
	Reden  string  `yaml:"reden"`
}

// DemoSeed returns the built-in demo data.
func DemoSeed() (*Seed, error) {
	return ParseSeed(demoSeed)
}

// LoadSeedFile reads a seed from a YAML file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML. Unknown keys are rejected so typos surface at startup.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &seed, nil
}

// Apply loads the seed through the regular store operations, in the order
// reasons, players, fines.
func (s *Seed) Apply(ctx context.Context, store repository.Store, logger *slog.Logger) error {
	for _, r := range s.Reasons {
		bedrag := domain.NewAmount(r.Bedrag)
		nr, err := domain.ReasonInput{Naam: r.Naam, Bedrag: &bedrag}.Validate(domain.Zero)
		if err != nil {
			return fmt.Errorf("seed reason %q: %w", r.Naam, err)
		}
		if _, err := store.AddReason(ctx, nr); err != nil {
			return fmt.Errorf("seed reason %q: %w", r.Naam, err)
		}
	}

	for _, name := range s.Players {
		if _, err := store.AddPlayer(ctx, name); err != nil {
			return fmt.Errorf("seed player %q: %w", name, err)
		}
	}

	for _, f := range s.Fines {
		bedrag := domain.NewAmount(f.Bedrag)
		nf, err := domain.FineInput{Speler: f.Speler, Bedrag: &bedrag, Reden: f.Reden}.Validate()
		if err != nil {
			return fmt.Errorf("seed fine for %q: %w", f.Speler, err)
		}
		if _, err := store.AddFine(ctx, nf); err != nil {
			return fmt.Errorf("seed fine for %q: %w", f.Speler, err)
		}
	}

	logger.Info("ledger seeded",
		"reasons", len(s.Reasons),
		"players", len(s.Players),
		"fines", len(s.Fines),
	)
	return nil
}
