// Package entity provides the player character, enemies and inventory items.
package entity

import (
	"errors"
	"slices"

	"github.com/samdwyer/terminalrealm/internal/rng"
)

const (
	// StartingGold is the purse every new character begins with.
	StartingGold = 100
	// XPPerLevel is the experience needed for each level-up.
	XPPerLevel = 100

	levelHealthGain  = 20
	levelAttackGain  = 3
	levelDefenseGain = 2

	// Attack rolls span [attack-2, attack+5].
	rollLow  = 2
	rollHigh = 5
)

var (
	ErrWeaponBroken     = errors.New("weapon is broken")
	ErrInsufficientGold = errors.New("not enough gold")
)

// Target is anything that can be hit by an attack.
type Target interface {
	TakeDamage(raw int) int
}

// AttackResult describes a single attack.
type AttackResult struct {
	Rolled int          // raw damage before the target's defense
	Dealt  int          // damage actually applied
	Broken *OwnedWeapon // weapon that broke on this swing, if any
}

// Character is the player hero. Enemies embed it too.
type Character struct {
	Name       string
	Health     int
	MaxHealth  int
	BaseAttack int
	Defense    int
	Position   Point
	Level      int
	Experience int
	Gold       int

	inventory       []Item
	equipped        *OwnedWeapon
	effectiveAttack float64
}

// NewCharacter creates a level 1 character at the origin with starting gold.
func NewCharacter(name string, health, attack, defense int) *Character {
	c := &Character{
		Name:       name,
		Health:     health,
		MaxHealth:  health,
		BaseAttack: attack,
		Defense:    defense,
		Level:      1,
		Gold:       StartingGold,
	}
	c.recompute()
	return c
}

// recompute is the only place effectiveAttack is derived.
func (c *Character) recompute() {
	c.effectiveAttack = float64(c.BaseAttack)
	if c.equipped != nil {
		c.effectiveAttack += c.equipped.AttackBonus()
	}
}

// Recompute re-derives attack and clamps health after fields were set directly,
// e.g. when restoring a save.
func (c *Character) Recompute() {
	c.MaxHealth = max(c.MaxHealth, 0)
	c.Health = max(0, min(c.Health, c.MaxHealth))
	c.Level = max(c.Level, 1)
	c.Experience = max(c.Experience, 0)
	c.Gold = max(c.Gold, 0)
	c.recompute()
}

// GetName returns the character's name.
func (c *Character) GetName() string { return c.Name }

// IsAlive returns true if the character has health remaining.
func (c *Character) IsAlive() bool { return c.Health > 0 }

// EffectiveAttack returns base attack plus the equipped weapon's bonus.
func (c *Character) EffectiveAttack() float64 { return c.effectiveAttack }

// Equipped returns the equipped weapon, or nil when fighting bare-handed.
func (c *Character) Equipped() *OwnedWeapon { return c.equipped }

// Equip wields w, adding it to the inventory if it is not already carried.
func (c *Character) Equip(w *OwnedWeapon) error {
	if w.Broken() {
		return ErrWeaponBroken
	}
	c.Unequip()
	if !c.Has(w) {
		c.inventory = append(c.inventory, w)
	}
	c.equipped = w
	c.recompute()
	return nil
}

// Unequip clears the weapon slot and returns what was equipped, if anything.
// The weapon stays in the inventory.
func (c *Character) Unequip() *OwnedWeapon {
	prev := c.equipped
	c.equipped = nil
	c.recompute()
	return prev
}

// TakeDamage applies raw damage reduced by defense and returns what landed.
func (c *Character) TakeDamage(raw int) int {
	actual := max(0, raw-c.Defense)
	c.Health = max(0, c.Health-actual)
	return actual
}

// Heal restores health up to the maximum and returns the amount restored.
func (c *Character) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Health
	c.Health = min(c.MaxHealth, c.Health+amount)
	return c.Health - before
}

// Attack rolls damage, wears the equipped weapon and hits target.
// A weapon reaching zero durability breaks and is unequipped.
func (c *Character) Attack(target Target, src rng.Source) AttackResult {
	var result AttackResult
	result.Rolled = rng.IntRange(src,
		int(c.effectiveAttack-rollLow),
		int(c.effectiveAttack+rollHigh))

	if w := c.equipped; w != nil && w.Use() {
		c.Unequip()
		result.Broken = w
	}

	result.Dealt = target.TakeDamage(result.Rolled)
	return result
}

// GainExperience adds xp and levels up as many times as it allows.
// It returns the number of levels gained.
func (c *Character) GainExperience(xp int) int {
	if xp <= 0 {
		return 0
	}
	c.Experience += xp
	levels := 0
	for c.Experience >= XPPerLevel {
		c.LevelUp()
		levels++
	}
	return levels
}

// LevelUp raises the level, spends one level of experience, boosts stats and fully heals.
func (c *Character) LevelUp() {
	c.Level++
	c.Experience -= XPPerLevel
	c.MaxHealth += levelHealthGain
	c.Health = c.MaxHealth
	c.BaseAttack += levelAttackGain
	c.Defense += levelDefenseGain
	c.recompute()
}

// AddGold adds to the purse.
func (c *Character) AddGold(amount int) {
	if amount > 0 {
		c.Gold += amount
	}
}

// SpendGold removes amount from the purse if the character can afford it.
func (c *Character) SpendGold(amount int) error {
	if amount > c.Gold {
		return ErrInsufficientGold
	}
	c.Gold -= amount
	return nil
}

// AddItem appends an item to the inventory.
func (c *Character) AddItem(item Item) {
	c.inventory = append(c.inventory, item)
}

// Has reports whether the exact weapon copy is carried.
func (c *Character) Has(w *OwnedWeapon) bool {
	return slices.ContainsFunc(c.inventory, func(it Item) bool {
		owned, ok := it.(*OwnedWeapon)
		return ok && owned == w
	})
}

// Inventory returns a copy of the inventory in carry order.
func (c *Character) Inventory() []Item {
	return slices.Clone(c.inventory)
}

// Weapons returns the carried weapons in carry order.
func (c *Character) Weapons() []*OwnedWeapon {
	var out []*OwnedWeapon
	for _, it := range c.inventory {
		if w, ok := it.(*OwnedWeapon); ok {
			out = append(out, w)
		}
	}
	return out
}

// Collectibles returns the carried non-weapon items in carry order.
func (c *Character) Collectibles() []Collectible {
	var out []Collectible
	for _, it := range c.inventory {
		if col, ok := it.(Collectible); ok {
			out = append(out, col)
		}
	}
	return out
}
