package world

import (
	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/rng"
)

// TreasureKind says what a treasure roll produced.
type TreasureKind int

const (
	TreasureNone TreasureKind = iota
	TreasureWeapon
	TreasureGold
	TreasurePotion
)

const (
	weaponChance = 0.3
	goldChance   = 0.6 // cumulative with weaponChance
	minGold      = 20
	maxGold      = 100
	potionHeal   = 30
)

// String returns a human-readable kind.
func (k TreasureKind) String() string {
	switch k {
	case TreasureWeapon:
		return "weapon"
	case TreasureGold:
		return "gold"
	case TreasurePotion:
		return "potion"
	default:
		return "none"
	}
}

// Treasure is the result of a treasure roll, already applied to the hero.
type Treasure struct {
	Kind   TreasureKind
	Weapon *entity.OwnedWeapon
	Gold   int
	Healed int
}

// FindTreasure rolls for loot and applies it to c: 30% a weighted weapon
// draw, 30% 20-100 gold, otherwise a potion that heals 30.
// A weapon roll on an empty rarity tier finds nothing.
func (w *World) FindTreasure(c *entity.Character) Treasure {
	roll := w.rng.Float64()
	switch {
	case roll < weaponChance:
		def := w.Catalog.WeightedRandom(w.rng)
		if def == nil {
			return Treasure{Kind: TreasureNone}
		}
		weapon := entity.NewOwnedWeapon(def)
		c.AddItem(weapon)
		return Treasure{Kind: TreasureWeapon, Weapon: weapon}

	case roll < goldChance:
		gold := rng.IntRange(w.rng, minGold, maxGold)
		c.AddGold(gold)
		return Treasure{Kind: TreasureGold, Gold: gold}

	default:
		return Treasure{Kind: TreasurePotion, Healed: c.Heal(potionHeal)}
	}
}
