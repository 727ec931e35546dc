package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/terminalrealm/internal/combat"
	"github.com/samdwyer/terminalrealm/internal/config"
	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/logger"
	"github.com/samdwyer/terminalrealm/internal/rng"
	"github.com/samdwyer/terminalrealm/internal/save"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
	"github.com/samdwyer/terminalrealm/internal/world"
)

var (
	ErrInBattle      = errors.New("a battle is in progress")
	ErrNoBattle      = errors.New("no battle in progress")
	ErrGameOver      = errors.New("the hero has fallen")
	ErrUnknownWeapon = errors.New("no such weapon")
	ErrNoSuchItem    = errors.New("no such item")
)

// Deps are the collaborators a session needs.
type Deps struct {
	PlayerName string
	Balance    config.Balance
	Catalog    *gamedata.Catalog
	Bestiary   *gamedata.Bestiary
	Store      *save.Store
	Rng        rng.Source
	Log        *slog.Logger
}

// Report is what one player command produced, for display.
type Report struct {
	Messages []string
	Round    *combat.RoundResult
	Outcome  *combat.Outcome
	Treasure *world.Treasure
}

func (r *Report) say(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// Session is one playthrough: the hero, the world and any battle in progress.
type Session struct {
	Player   *entity.Character
	World    *world.World
	Catalog  *gamedata.Catalog
	Bestiary *gamedata.Bestiary
	Moves    int
	Battle   *combat.Battle

	name       string
	balance    config.Balance
	store      *save.Store
	rng        rng.Source
	log        *slog.Logger
	lootChance float64 // treasure chance after winning the current battle
}

// NewSession starts a fresh game.
func NewSession(d Deps) *Session {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Catalog == nil {
		d.Catalog = gamedata.NewCatalog(nil)
	}
	if d.Bestiary == nil {
		d.Bestiary = gamedata.NewBestiary(nil)
	}
	if d.PlayerName == "" {
		d.PlayerName = "Hero"
	}
	s := &Session{
		Catalog:  d.Catalog,
		Bestiary: d.Bestiary,
		name:     d.PlayerName,
		balance:  d.Balance,
		store:    d.Store,
		rng:      d.Rng,
		log:      d.Log,
	}
	s.reset()
	return s
}

// reset replaces the hero and world with new ones.
func (s *Session) reset() {
	b := s.balance
	s.Player = entity.NewCharacter(s.name, b.HeroHealth, b.HeroAttack, b.HeroDefense)
	if def := s.Catalog.FindByName(b.StartWeapon); def != nil {
		// A fresh copy is never broken.
		_ = s.Player.Equip(entity.NewOwnedWeapon(def))
	}
	s.World = world.New(b.WorldWidth, b.WorldHeight, s.Catalog, s.rng)
	s.World.Discover(s.Player.Position)
	s.Moves = 0
	s.Battle = nil
}

// NewGame abandons the current playthrough and starts over.
func (s *Session) NewGame(ctx context.Context) {
	s.reset()
	logger.FromContext(ctx, s.log).Info("new game", "player", s.Player.Name)
}

// Over reports whether the hero has fallen.
func (s *Session) Over() bool {
	return !s.Player.IsAlive()
}

func (s *Session) ready() error {
	if s.Over() {
		return ErrGameOver
	}
	if s.Battle != nil {
		return ErrInBattle
	}
	return nil
}

// Move steps the hero and may trigger an encounter.
func (s *Session) Move(ctx context.Context, dir world.Direction) (Report, error) {
	var r Report
	if err := s.ready(); err != nil {
		return r, err
	}

	pos, moved := s.World.Move(ctx, s.Player, dir)
	if !moved {
		r.say("You can't go that way.")
		return r, nil
	}
	s.Moves++
	r.say("You move %s to (%d, %d).", dir, pos.X, pos.Y)

	if rng.Chance(s.rng, s.balance.MoveEncounterChance) {
		s.startBattle(ctx, &r, s.balance.MoveLootChance)
	}
	return r, nil
}

// Explore searches the current cell for enemies or treasure.
func (s *Session) Explore(ctx context.Context) (Report, error) {
	var r Report
	if err := s.ready(); err != nil {
		return r, err
	}

	r.say("You search the area...")
	switch {
	case rng.Chance(s.rng, s.balance.ExploreEncounterChance):
		s.startBattle(ctx, &r, s.balance.ExploreLootChance)
	case rng.Chance(s.rng, s.balance.QuietLootChance):
		s.treasure(ctx, &r)
	default:
		r.say("You find nothing of interest.")
	}
	return r, nil
}

// Rest recovers some health.
func (s *Session) Rest(ctx context.Context) (Report, error) {
	var r Report
	if err := s.ready(); err != nil {
		return r, err
	}
	healed := s.Player.Heal(s.balance.RestHeal)
	r.say("You rest and recover %d health.", healed)
	return r, nil
}

func (s *Session) startBattle(ctx context.Context, r *Report, lootChance float64) {
	def := s.Bestiary.SpawnForLevel(s.rng, s.Player.Level)
	if def == nil {
		return
	}
	enemy := entity.NewEnemyFromDef(def)
	s.Battle = combat.NewBattle(s.Player, enemy, s.rng)
	s.lootChance = lootChance

	r.say("A wild %s appears!", enemy.Name)
	logger.FromContext(ctx, s.log).Info("encounter", "enemy", def.ID, "level", s.Player.Level, "moves", s.Moves)
}

// Fight plays one round of the current battle.
func (s *Session) Fight(ctx context.Context, action combat.Action) (Report, error) {
	var r Report
	if s.Battle == nil {
		return r, ErrNoBattle
	}

	res := s.Battle.Round(ctx, action)
	r.Round = &res
	r.Messages = append(r.Messages, res.Messages...)
	if !res.State.Finished() {
		return r, nil
	}

	out := s.Battle.Outcome()
	r.Outcome = &out
	s.Battle = nil
	logger.FromContext(ctx, s.log).Info("battle over",
		"outcome", out.State.String(),
		"rounds", out.Rounds,
		"xp", out.Reward.XP,
		"gold", out.Reward.Gold,
	)

	switch out.State {
	case combat.PlayerVictory:
		if rng.Chance(s.rng, s.lootChance) {
			s.treasure(ctx, &r)
		}
	case combat.PlayerDefeat:
		r.say("Game over. You survived %d moves.", s.Moves)
	}
	return r, nil
}

func (s *Session) treasure(ctx context.Context, r *Report) {
	t := s.World.FindTreasure(s.Player)
	r.Treasure = &t
	switch t.Kind {
	case world.TreasureWeapon:
		r.say("You found a %s %s!", t.Weapon.Def.Rarity, t.Weapon.ItemName())
	case world.TreasureGold:
		r.say("You found %d gold!", t.Gold)
	case world.TreasurePotion:
		r.say("You drink a potion and recover %d health.", t.Healed)
	default:
		r.say("The chest is empty.")
	}
	logger.FromContext(ctx, s.log).Debug("treasure", "kind", t.Kind.String())
}

// EquipWeapon wields the i-th carried weapon (0-based, in carry order).
func (s *Session) EquipWeapon(i int) (*entity.OwnedWeapon, error) {
	weapons := s.Player.Weapons()
	if i < 0 || i >= len(weapons) {
		return nil, ErrNoSuchItem
	}
	w := weapons[i]
	if err := s.Player.Equip(w); err != nil {
		return nil, err
	}
	return w, nil
}

// ShopTier is the weapons of one rarity on sale.
type ShopTier struct {
	Rarity  gamedata.Rarity
	Weapons []*gamedata.WeaponDef
}

// ShopStock lists the weapons the hero can afford, grouped by rarity from
// most to least common, capped per tier. Empty tiers are left out.
func (s *Session) ShopStock() []ShopTier {
	affordable := s.Catalog.FilterAffordable(s.Player.Gold)
	var out []ShopTier
	for _, r := range gamedata.Rarities() {
		var tier []*gamedata.WeaponDef
		for _, w := range affordable {
			if w.Rarity == r && len(tier) < s.balance.ShopPerRarity {
				tier = append(tier, w)
			}
		}
		if len(tier) > 0 {
			out = append(out, ShopTier{Rarity: r, Weapons: tier})
		}
	}
	return out
}

// Buy spends gold on a new copy of the named weapon.
func (s *Session) Buy(ctx context.Context, name string) (*entity.OwnedWeapon, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	def := s.Catalog.FindByName(name)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWeapon, name)
	}
	if err := s.Player.SpendGold(def.Cost); err != nil {
		return nil, err
	}
	w := entity.NewOwnedWeapon(def)
	s.Player.AddItem(w)
	logger.FromContext(ctx, s.log).Info("purchase", "weapon", def.Name, "cost", def.Cost, "gold_left", s.Player.Gold)
	return w, nil
}

// Save writes the session to the store. Battles in progress are not saved.
func (s *Session) Save(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.Save(ctx, s.Player, s.World, s.Moves)
}

// Load replaces the session with the saved game. On error the session is unchanged.
func (s *Session) Load(ctx context.Context) (*save.Restored, error) {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.load")
	defer span.End()

	restored, err := s.store.Load(ctx, s.Catalog)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.Player = restored.Player
	s.World = world.New(restored.Width, restored.Height, s.Catalog, s.rng)
	s.World.RestoreDiscovered(restored.Discovered)
	s.World.Discover(s.Player.Position)
	s.Moves = restored.Moves
	s.Battle = nil

	span.SetAttributes(
		attribute.Int("moves", s.Moves),
		attribute.Int("discovered", s.World.DiscoveredCount()),
	)
	return restored, nil
}

// HasSave reports whether a save file exists.
func (s *Session) HasSave() bool {
	return s.store.Exists()
}

// SaveInfo previews the save file.
func (s *Session) SaveInfo() (*save.Info, error) {
	return s.store.Summary()
}

// DeleteSave removes the save file.
func (s *Session) DeleteSave() error {
	return s.store.Delete()
}
