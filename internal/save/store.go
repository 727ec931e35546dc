package save

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
	"github.com/samdwyer/terminalrealm/internal/world"
)

// DefaultPath is used when no save file is configured.
const DefaultPath = "savegame.json"

// Store reads and writes one save file.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a store for path.
func NewStore(path string, log *slog.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Path returns the save file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a save file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Save writes the game atomically. On failure the previous file is left intact.
func (s *Store) Save(ctx context.Context, player *entity.Character, w *world.World, moves int) error {
	_, span := telemetry.Tracer("save").Start(ctx, "save.write")
	defer span.End()

	rec := Serialize(player, w, moves)
	span.SetAttributes(
		attribute.String("path", s.path),
		attribute.Int("inventory", len(rec.Player.Inventory)),
		attribute.Int("discovered", len(rec.World.Discovered)),
	)

	if err := s.atomicWrite(rec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error("save failed", "path", s.path, "error", err)
		return err
	}
	s.log.Info("game saved", "path", s.path, "moves", moves)
	return nil
}

func (s *Store) atomicWrite(rec *Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads the save file and rebuilds the game against catalog.
// It returns ErrNoSave when there is no file and ErrCorruptSave when the file is unusable.
func (s *Store) Load(ctx context.Context, catalog *gamedata.Catalog) (*Restored, error) {
	_, span := telemetry.Tracer("save").Start(ctx, "save.read")
	defer span.End()
	span.SetAttributes(attribute.String("path", s.path))

	rec, err := s.read()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	restored, err := deserialize(rec, catalog, s.log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("dropped", len(restored.Dropped)),
		attribute.Int("level", restored.Player.Level),
	)
	s.log.Info("game loaded", "path", s.path, "player", restored.Player.Name, "dropped", len(restored.Dropped))
	return restored, nil
}

func (s *Store) read() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("read save: %w", err)
	}
	return Decode(data)
}

// Delete removes the save file. It returns ErrNoSave if there is none.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoSave
		}
		return fmt.Errorf("delete save: %w", err)
	}
	s.log.Info("save deleted", "path", s.path)
	return nil
}

// Info is a preview of a save file.
type Info struct {
	Name           string
	Level          int
	Health         int
	MaxHealth      int
	Attack         float64
	Defense        int
	Gold           int
	Experience     int
	Position       entity.Point
	Equipped       string // empty when bare-handed
	InventoryCount int
	Moves          int
	SavedAt        time.Time
}

// Summary previews the save file without rebuilding the game.
func (s *Store) Summary() (*Info, error) {
	rec, err := s.read()
	if err != nil {
		return nil, err
	}

	p := rec.Player
	info := &Info{
		Name:           p.Name,
		Level:          p.Level,
		Health:         p.Health,
		MaxHealth:      p.MaxHealth,
		Attack:         p.Attack,
		Defense:        p.Defense,
		Gold:           p.Gold,
		Experience:     p.Experience,
		Position:       entity.Point{X: p.Position[0], Y: p.Position[1]},
		InventoryCount: len(p.Inventory),
		Moves:          p.MovesCount,
	}
	if p.EquippedWeapon != nil {
		info.Equipped = p.EquippedWeapon.Name
	}
	if st, err := os.Stat(s.path); err == nil {
		info.SavedAt = st.ModTime()
	}
	return info, nil
}
