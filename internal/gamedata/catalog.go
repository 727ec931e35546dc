package gamedata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/samdwyer/terminalrealm/internal/rng"
)

// ErrCatalogNotFound is returned alongside an empty catalog when the weapon
// file does not exist. Callers may log it and keep playing.
var ErrCatalogNotFound = errors.New("weapon file not found")

// weaponFields is the number of pipe-separated fields per weapon line.
const weaponFields = 8

// Catalog holds every weapon definition for a session.
type Catalog struct {
	weapons []WeaponDef
	skipped int
}

// NewCatalog builds a catalog from already-parsed definitions.
func NewCatalog(weapons []WeaponDef) *Catalog {
	return &Catalog{weapons: weapons}
}

// LoadCatalog reads a weapon file from disk.
// A missing file yields an empty catalog and ErrCatalogNotFound.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(nil), fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("open weapon file %s: %w", path, err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load weapon file %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog parses the pipe-delimited weapon format:
//
//	name|attack|rarity|durability|cost|type|effect|description
//
// Blank lines and lines starting with '#' are ignored, lines with the wrong
// field count are skipped, and a bad number fails the whole load.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != weaponFields {
			c.skipped++
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		def, err := parseWeapon(parts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		c.weapons = append(c.weapons, def)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read weapons: %w", err)
	}
	return c, nil
}

func parseWeapon(parts []string) (WeaponDef, error) {
	attack, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return WeaponDef{}, fmt.Errorf("invalid attack %q: %w", parts[1], err)
	}
	durability, err := strconv.Atoi(parts[3])
	if err != nil {
		return WeaponDef{}, fmt.Errorf("invalid durability %q: %w", parts[3], err)
	}
	cost, err := strconv.Atoi(parts[4])
	if err != nil {
		return WeaponDef{}, fmt.Errorf("invalid cost %q: %w", parts[4], err)
	}
	if durability < 0 {
		durability = 0
	}

	return WeaponDef{
		Name:          parts[0],
		Attack:        attack,
		Rarity:        Rarity(parts[2]),
		MaxDurability: durability,
		Cost:          cost,
		Type:          parts[5],
		Effect:        parts[6],
		Description:   parts[7],
	}, nil
}

// Count returns the number of loaded weapons.
func (c *Catalog) Count() int {
	return len(c.weapons)
}

// Skipped returns how many malformed lines the parser ignored.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// All returns every definition in file order.
func (c *Catalog) All() []*WeaponDef {
	return c.filter(func(*WeaponDef) bool { return true })
}

// FindByName returns the first weapon whose name matches case-insensitively, or nil.
func (c *Catalog) FindByName(name string) *WeaponDef {
	for i := range c.weapons {
		if strings.EqualFold(c.weapons[i].Name, name) {
			return &c.weapons[i]
		}
	}
	return nil
}

// FilterByRarity returns the weapons of one tier.
func (c *Catalog) FilterByRarity(rarity Rarity) []*WeaponDef {
	return c.filter(func(w *WeaponDef) bool { return w.Rarity == rarity })
}

// FilterByType returns the weapons of one type tag (e.g. "Sword").
func (c *Catalog) FilterByType(weaponType string) []*WeaponDef {
	return c.filter(func(w *WeaponDef) bool { return w.Type == weaponType })
}

// FilterAffordable returns the weapons costing at most gold.
func (c *Catalog) FilterAffordable(gold int) []*WeaponDef {
	return c.filter(func(w *WeaponDef) bool { return w.Cost <= gold })
}

func (c *Catalog) filter(keep func(*WeaponDef) bool) []*WeaponDef {
	var out []*WeaponDef
	for i := range c.weapons {
		if keep(&c.weapons[i]) {
			out = append(out, &c.weapons[i])
		}
	}
	return out
}

// RandomOfRarity picks uniformly among weapons of one tier, or nil if the tier is empty.
func (c *Catalog) RandomOfRarity(src rng.Source, rarity Rarity) *WeaponDef {
	tier := c.FilterByRarity(rarity)
	if len(tier) == 0 {
		return nil
	}
	return tier[src.Intn(len(tier))]
}

// RollRarity picks a tier using the fixed drop weights.
func RollRarity(src rng.Source) Rarity {
	total := 0
	for _, r := range Rarities() {
		total += r.Weight()
	}

	roll := src.Intn(total)
	cumulative := 0
	for _, r := range Rarities() {
		cumulative += r.Weight()
		if roll < cumulative {
			return r
		}
	}
	return RarityCommon
}

// WeightedRandom rolls a tier and then a weapon within it.
// An empty tier yields nil; the draw never falls through to another tier.
func (c *Catalog) WeightedRandom(src rng.Source) *WeaponDef {
	return c.RandomOfRarity(src, RollRarity(src))
}
