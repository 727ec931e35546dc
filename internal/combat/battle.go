// Package combat resolves one-on-one battles between the hero and an enemy.
package combat

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/rng"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
)

const (
	// DefendHeal is the health restored by the defend action.
	DefendHeal = 15
	// FleeChance is the probability that a flee attempt succeeds.
	FleeChance = 0.25
)

// State is the battle's lifecycle state.
type State int

const (
	Ongoing State = iota
	PlayerVictory
	PlayerDefeat
	PlayerFled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case PlayerVictory:
		return "victory"
	case PlayerDefeat:
		return "defeat"
	case PlayerFled:
		return "fled"
	default:
		return "unknown"
	}
}

// Finished reports whether the battle has ended.
func (s State) Finished() bool {
	return s != Ongoing
}

// Action is the hero's choice for one round.
type Action int

const (
	Attack Action = iota
	Defend
	Flee
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case Attack:
		return "attack"
	case Defend:
		return "defend"
	case Flee:
		return "flee"
	default:
		return "unknown"
	}
}

// RoundResult describes what happened in one round.
type RoundResult struct {
	Round        int // 1-based; 0 when the battle was already over
	Action       Action
	PlayerAttack *entity.AttackResult
	Healed       int
	Fled         bool
	EnemyAttack  *entity.AttackResult
	LevelsGained int
	State        State
	Messages     []string
}

// Outcome summarises a finished battle.
type Outcome struct {
	State        State
	Rounds       int
	Reward       entity.Reward // zero unless the hero won
	LevelsGained int
}

// Chooser picks the hero's action each round.
type Chooser interface {
	Choose(ctx context.Context, b *Battle) Action
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, b *Battle) Action

// Choose calls f.
func (f ChooserFunc) Choose(ctx context.Context, b *Battle) Action {
	return f(ctx, b)
}

// Battle is a single encounter between the hero and one enemy.
type Battle struct {
	Player *entity.Character
	Enemy  *entity.Enemy

	state        State
	round        int
	levelsGained int
	started      bool
	rng          rng.Source
}

// NewBattle creates an ongoing battle.
func NewBattle(player *entity.Character, enemy *entity.Enemy, src rng.Source) *Battle {
	return &Battle{
		Player: player,
		Enemy:  enemy,
		state:  Ongoing,
		rng:    src,
	}
}

// State returns the current state.
func (b *Battle) State() State { return b.state }

// Rounds returns the number of completed rounds.
func (b *Battle) Rounds() int { return b.round }

// Outcome returns the battle summary so far.
func (b *Battle) Outcome() Outcome {
	out := Outcome{State: b.state, Rounds: b.round, LevelsGained: b.levelsGained}
	if b.state == PlayerVictory {
		out.Reward = b.Enemy.Reward
	}
	return out
}

func (b *Battle) start(ctx context.Context) {
	if b.started {
		return
	}
	b.started = true

	_, span := telemetry.Tracer("combat").Start(ctx, "combat.start")
	span.SetAttributes(
		attribute.String("enemy", b.Enemy.Name),
		attribute.Int("enemy_hp", b.Enemy.Health),
		attribute.Int("player_hp", b.Player.Health),
		attribute.Int("player_level", b.Player.Level),
	)
	span.End()
}

func (b *Battle) end(ctx context.Context) {
	_, span := telemetry.Tracer("combat").Start(ctx, "combat.end")
	span.SetAttributes(
		attribute.String("outcome", b.state.String()),
		attribute.Int("rounds", b.round),
	)
	span.End()
}

// Round plays one round with the given action. Calling it on a finished
// battle changes nothing and returns the terminal state.
func (b *Battle) Round(ctx context.Context, action Action) RoundResult {
	if b.state.Finished() {
		return RoundResult{Action: action, State: b.state}
	}
	b.start(ctx)

	ctx, span := telemetry.Tracer("combat").Start(ctx, "combat.round")
	defer span.End()

	b.round++
	res := RoundResult{Round: b.round, Action: action}
	span.SetAttributes(
		attribute.Int("round", b.round),
		attribute.String("action", action.String()),
	)

	switch action {
	case Attack:
		hit := b.Player.Attack(&b.Enemy.Character, b.rng)
		res.PlayerAttack = &hit
		res.say("%s hits %s for %d damage.", b.Player.Name, b.Enemy.Name, hit.Dealt)
		if hit.Broken != nil {
			res.say("Your %s breaks!", hit.Broken.ItemName())
		}
		span.SetAttributes(attribute.Int("damage_dealt", hit.Dealt))
	case Defend:
		res.Healed = b.Player.Heal(DefendHeal)
		res.say("%s defends and recovers %d health.", b.Player.Name, res.Healed)
	case Flee:
		if rng.Chance(b.rng, FleeChance) {
			res.Fled = true
			res.say("%s escapes from %s.", b.Player.Name, b.Enemy.Name)
			return b.finish(ctx, res, PlayerFled)
		}
		res.say("%s fails to escape!", b.Player.Name)
	}

	if !b.Enemy.IsAlive() {
		res.LevelsGained = b.Player.GainExperience(b.Enemy.Reward.XP)
		b.Player.AddGold(b.Enemy.Reward.Gold)
		b.levelsGained = res.LevelsGained
		res.say("%s is defeated! +%d XP, +%d gold.", b.Enemy.Name, b.Enemy.Reward.XP, b.Enemy.Reward.Gold)
		if res.LevelsGained > 0 {
			res.say("%s reaches level %d!", b.Player.Name, b.Player.Level)
		}
		return b.finish(ctx, res, PlayerVictory)
	}

	hit := b.Enemy.Attack(b.Player, b.rng)
	res.EnemyAttack = &hit
	res.say("%s hits %s for %d damage.", b.Enemy.Name, b.Player.Name, hit.Dealt)
	span.SetAttributes(attribute.Int("damage_taken", hit.Dealt))

	if !b.Player.IsAlive() {
		res.say("%s has fallen.", b.Player.Name)
		return b.finish(ctx, res, PlayerDefeat)
	}

	res.State = b.state
	return res
}

func (b *Battle) finish(ctx context.Context, res RoundResult, state State) RoundResult {
	b.state = state
	res.State = state
	b.end(ctx)
	return res
}

// Run plays rounds with chooser until the battle ends.
func (b *Battle) Run(ctx context.Context, chooser Chooser) Outcome {
	b.start(ctx)
	for !b.state.Finished() {
		b.Round(ctx, chooser.Choose(ctx, b))
	}
	return b.Outcome()
}

func (r *RoundResult) say(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}
