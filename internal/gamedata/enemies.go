package gamedata

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/terminalrealm/internal/rng"
)

// EnemyDef defines an enemy stat block loaded from enemies.json.
// Entries are ordered from weakest to strongest.
type EnemyDef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Glyph      string `json:"glyph"`
	Color      string `json:"color"`
	HP         int    `json:"hp"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	XPReward   int    `json:"xpReward"`
	GoldReward int    `json:"goldReward"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

type enemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// Bestiary holds the enemy stat blocks and picks encounters.
type Bestiary struct {
	enemies []EnemyDef
}

// NewBestiary creates a bestiary from definitions ordered weakest first.
func NewBestiary(enemies []EnemyDef) *Bestiary {
	return &Bestiary{enemies: enemies}
}

// LoadBestiary loads the embedded enemies.json.
func LoadBestiary() (*Bestiary, error) {
	file, err := loadJSON[enemiesFile](dataFS, "enemies.json")
	if err != nil {
		return nil, err
	}
	if len(file.Enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewBestiary(file.Enemies), nil
}

// SpawnForLevel picks uniformly among the enemies unlocked at the player's level.
// Level 1 unlocks the first two entries, each further level one more.
func (b *Bestiary) SpawnForLevel(src rng.Source, level int) *EnemyDef {
	if len(b.enemies) == 0 {
		return nil
	}
	maxIndex := min(len(b.enemies)-1, max(level, 0))
	return &b.enemies[src.Intn(maxIndex+1)]
}

// Count returns the number of enemy types.
func (b *Bestiary) Count() int {
	return len(b.enemies)
}
