package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/terminalrealm/internal/gamedata"
)

// Reward is what the player earns for defeating an enemy.
type Reward struct {
	XP   int
	Gold int
}

// Enemy is a Character with a reward attached. Enemies live for one encounter.
type Enemy struct {
	Character
	Def    *gamedata.EnemyDef // nil for hand-built enemies
	Reward Reward
}

// NewEnemy creates an enemy from raw stats.
func NewEnemy(name string, health, attack, defense int, reward Reward) *Enemy {
	return &Enemy{
		Character: *NewCharacter(name, health, attack, defense),
		Reward:    reward,
	}
}

// NewEnemyFromDef creates an enemy from a bestiary entry.
func NewEnemyFromDef(def *gamedata.EnemyDef) *Enemy {
	e := NewEnemy(def.Name, def.HP, def.Attack, def.Defense, Reward{XP: def.XPReward, Gold: def.GoldReward})
	e.Def = def
	return e
}

// Glyph returns the enemy's display symbol.
func (e *Enemy) Glyph() rune {
	if e.Def != nil {
		return e.Def.GlyphRune()
	}
	return '?'
}

// Color returns the display color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}
