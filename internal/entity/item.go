package entity

import "github.com/samdwyer/terminalrealm/internal/gamedata"

// Item is one inventory entry: either a *OwnedWeapon or a Collectible.
type Item interface {
	ItemName() string
	isItem()
}

// Collectible is a plain named keepsake with no game mechanics.
type Collectible string

// ItemName returns the collectible's name.
func (c Collectible) ItemName() string { return string(c) }

func (Collectible) isItem() {}

// OwnedWeapon is one copy of a catalog weapon with its own durability.
type OwnedWeapon struct {
	Def        *gamedata.WeaponDef
	durability int
}

// NewOwnedWeapon creates a fresh copy at full durability.
func NewOwnedWeapon(def *gamedata.WeaponDef) *OwnedWeapon {
	return &OwnedWeapon{Def: def, durability: def.MaxDurability}
}

// ItemName returns the weapon's name.
func (w *OwnedWeapon) ItemName() string { return w.Def.Name }

func (*OwnedWeapon) isItem() {}

// AttackBonus returns the attack the weapon adds while equipped.
func (w *OwnedWeapon) AttackBonus() float64 { return w.Def.Attack }

// Durability returns the remaining uses. Unbreakable weapons report 0.
func (w *OwnedWeapon) Durability() int { return w.durability }

// SetDurability sets the remaining uses, clamped to [0, MaxDurability].
func (w *OwnedWeapon) SetDurability(n int) {
	w.durability = max(0, min(n, w.Def.MaxDurability))
}

// Unbreakable reports whether the weapon ignores wear.
func (w *OwnedWeapon) Unbreakable() bool { return w.Def.Unbreakable() }

// Broken reports whether a breakable weapon has run out of uses.
func (w *OwnedWeapon) Broken() bool {
	return !w.Unbreakable() && w.durability <= 0
}

// Use consumes one point of durability and reports whether the weapon broke.
func (w *OwnedWeapon) Use() bool {
	if w.Unbreakable() {
		return false
	}
	if w.durability > 0 {
		w.durability--
	}
	return w.durability == 0
}
