package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samdwyer/terminalrealm/internal/gamedata"
)

var orcDef = gamedata.EnemyDef{
	ID: "orc", Name: "Orc", Glyph: "o", Color: "#C04000",
	HP: 60, Attack: 15, Defense: 5, XPReward: 50, GoldReward: 40,
}

func TestOwnedWeaponDurability(t *testing.T) {
	w := NewOwnedWeapon(sword(5))
	assert.Equal(t, 5, w.Durability())

	w.SetDurability(9)
	assert.Equal(t, 5, w.Durability(), "clamped to max")
	w.SetDurability(-2)
	assert.Equal(t, 0, w.Durability(), "clamped to zero")
	assert.True(t, w.Broken())

	w.SetDurability(2)
	assert.False(t, w.Use())
	assert.True(t, w.Use())
	assert.True(t, w.Broken())
}

func TestOwnedWeaponUnbreakable(t *testing.T) {
	w := NewOwnedWeapon(sword(0))
	w.SetDurability(40)

	assert.Equal(t, 0, w.Durability())
	assert.False(t, w.Broken())
	assert.False(t, w.Use())
	assert.Equal(t, 4.5, w.AttackBonus())
}

func TestEnemyFromDef(t *testing.T) {
	e := NewEnemyFromDef(&orcDef)

	assert.Equal(t, "Orc", e.Name)
	assert.Equal(t, 60, e.Health)
	assert.Equal(t, 15.0, e.EffectiveAttack())
	assert.Equal(t, Reward{XP: 50, Gold: 40}, e.Reward)
	assert.Equal(t, 'o', e.Glyph())
	assert.NotZero(t, e.Color())

	bare := NewEnemy("Rat", 5, 1, 0, Reward{XP: 1})
	assert.Equal(t, '?', bare.Glyph())
}
