package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/terminalrealm/internal/combat"
	"github.com/samdwyer/terminalrealm/internal/config"
	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/logger"
	"github.com/samdwyer/terminalrealm/internal/rng"
	"github.com/samdwyer/terminalrealm/internal/save"
	"github.com/samdwyer/terminalrealm/internal/world"
)

const shopWeapons = `Rusty Sword|5|Common|10|25|Sword|None|A worn blade.
Oak Staff|3|Common|0|20|Staff|None|Never breaks.
Iron Mace|7|Common|30|60|Mace|None|Heavy.
Hunter's Bow|12|Uncommon|40|90|Bow|Piercing|A sturdy bow.
Frostbrand|20|Rare|60|400|Sword|Frost|Cold to the touch.
`

var rat = gamedata.EnemyDef{ID: "rat", Name: "Rat", HP: 5, Attack: 1, XPReward: 10, GoldReward: 5}

func newTestSession(t *testing.T, src rng.Source, enemies ...gamedata.EnemyDef) *Session {
	t.Helper()
	catalog, err := gamedata.ParseCatalog(strings.NewReader(shopWeapons))
	require.NoError(t, err)
	if len(enemies) == 0 {
		enemies = []gamedata.EnemyDef{rat}
	}
	return NewSession(Deps{
		PlayerName: "Aria",
		Balance:    config.DefaultBalance(),
		Catalog:    catalog,
		Bestiary:   gamedata.NewBestiary(enemies),
		Store:      save.NewStore(filepath.Join(t.TempDir(), "save.json"), logger.Discard()),
		Rng:        src,
		Log:        logger.Discard(),
	})
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, &rng.Scripted{})

	assert.Equal(t, "Aria", s.Player.Name)
	require.NotNil(t, s.Player.Equipped())
	assert.Equal(t, "Rusty Sword", s.Player.Equipped().ItemName())
	assert.Equal(t, 20.0, s.Player.EffectiveAttack())
	assert.Equal(t, entity.StartingGold, s.Player.Gold)
	assert.True(t, s.World.IsDiscovered(entity.Point{}))
	assert.Equal(t, 10, s.World.Width)
	assert.Nil(t, s.Battle)
}

func TestNewSessionWithoutStartWeapon(t *testing.T) {
	s := NewSession(Deps{Balance: config.DefaultBalance(), Rng: &rng.Scripted{}})

	assert.Equal(t, "Hero", s.Player.Name)
	assert.Nil(t, s.Player.Equipped())
	assert.Empty(t, s.Player.Inventory())
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked at the edge", func(t *testing.T) {
		s := newTestSession(t, &rng.Scripted{})
		r, err := s.Move(ctx, world.Down)
		require.NoError(t, err)
		assert.Equal(t, []string{"You can't go that way."}, r.Messages)
		assert.Equal(t, 0, s.Moves)
	})

	t.Run("quiet step", func(t *testing.T) {
		s := newTestSession(t, &rng.Scripted{Floats: []float64{0.9}})
		_, err := s.Move(ctx, world.Up)
		require.NoError(t, err)
		assert.Equal(t, 1, s.Moves)
		assert.Equal(t, entity.Point{X: 0, Y: 1}, s.Player.Position)
		assert.Nil(t, s.Battle)
	})

	t.Run("encounter blocks further movement", func(t *testing.T) {
		s := newTestSession(t, &rng.Scripted{Floats: []float64{0.1}})
		r, err := s.Move(ctx, world.Right)
		require.NoError(t, err)
		require.NotNil(t, s.Battle)
		assert.Equal(t, "Rat", s.Battle.Enemy.Name)
		assert.Contains(t, r.Messages, "A wild Rat appears!")

		_, err = s.Move(ctx, world.Right)
		assert.ErrorIs(t, err, ErrInBattle)
		_, err = s.Explore(ctx)
		assert.ErrorIs(t, err, ErrInBattle)
		assert.ErrorIs(t, s.Save(ctx), ErrInBattle)
	})
}

func TestFightToVictory(t *testing.T) {
	ctx := context.Background()

	t.Run("without loot", func(t *testing.T) {
		// encounter, then the loot roll misses
		s := newTestSession(t, &rng.Scripted{Floats: []float64{0.1, 0.9}})
		_, err := s.Move(ctx, world.Up)
		require.NoError(t, err)

		r, err := s.Fight(ctx, combat.Attack)
		require.NoError(t, err)
		require.NotNil(t, r.Outcome)
		assert.Equal(t, combat.PlayerVictory, r.Outcome.State)
		assert.Nil(t, r.Treasure)
		assert.Nil(t, s.Battle)
		assert.Equal(t, 10, s.Player.Experience)
		assert.Equal(t, entity.StartingGold+5, s.Player.Gold)

		_, err = s.Fight(ctx, combat.Attack)
		assert.ErrorIs(t, err, ErrNoBattle)
	})

	t.Run("with loot", func(t *testing.T) {
		// encounter, loot hit, treasure roll lands on gold
		s := newTestSession(t, &rng.Scripted{Floats: []float64{0.1, 0.1, 0.5}, Ints: []int{0, 0, 0}})
		_, err := s.Move(ctx, world.Up)
		require.NoError(t, err)

		r, err := s.Fight(ctx, combat.Attack)
		require.NoError(t, err)
		require.NotNil(t, r.Treasure)
		assert.Equal(t, world.TreasureGold, r.Treasure.Kind)
		assert.Equal(t, 20, r.Treasure.Gold)
		assert.Equal(t, entity.StartingGold+5+20, s.Player.Gold)
	})
}

func TestDefeatEndsTheGame(t *testing.T) {
	ctx := context.Background()
	ogre := gamedata.EnemyDef{ID: "ogre", Name: "Ogre", HP: 1000, Attack: 500}
	s := newTestSession(t, &rng.Scripted{Floats: []float64{0.1}}, ogre)

	_, err := s.Move(ctx, world.Up)
	require.NoError(t, err)
	r, err := s.Fight(ctx, combat.Attack)
	require.NoError(t, err)

	assert.Equal(t, combat.PlayerDefeat, r.Outcome.State)
	assert.True(t, s.Over())
	_, err = s.Move(ctx, world.Up)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Rest(ctx)
	assert.ErrorIs(t, err, ErrGameOver)

	s.NewGame(ctx)
	assert.False(t, s.Over())
	assert.Equal(t, 0, s.Moves)
	assert.Equal(t, entity.Point{}, s.Player.Position)
}

func TestExplore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		src      *rng.Scripted
		battle   bool
		treasure world.TreasureKind
		message  string
	}{
		{"battle", &rng.Scripted{Floats: []float64{0.5}}, true, world.TreasureNone, "A wild Rat appears!"},
		{"treasure", &rng.Scripted{Floats: []float64{0.7, 0.2, 0.45}, Ints: []int{30}}, false, world.TreasureGold, "You found 50 gold!"},
		{"nothing", &rng.Scripted{Floats: []float64{0.7, 0.9}}, false, world.TreasureNone, "You find nothing of interest."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.src)
			r, err := s.Explore(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.battle, s.Battle != nil)
			if tt.treasure != world.TreasureNone {
				require.NotNil(t, r.Treasure)
				assert.Equal(t, tt.treasure, r.Treasure.Kind)
			}
			assert.Contains(t, r.Messages, tt.message)
		})
	}
}

func TestRest(t *testing.T) {
	s := newTestSession(t, &rng.Scripted{})
	s.Player.TakeDamage(45) // 40 after defense

	r, err := s.Rest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 85, s.Player.Health)
	assert.Equal(t, []string{"You rest and recover 25 health."}, r.Messages)
}

func TestShopStock(t *testing.T) {
	s := newTestSession(t, &rng.Scripted{})
	s.balance.ShopPerRarity = 2

	stock := s.ShopStock()
	require.Len(t, stock, 2)
	assert.Equal(t, gamedata.RarityCommon, stock[0].Rarity)
	require.Len(t, stock[0].Weapons, 2)
	assert.Equal(t, "Rusty Sword", stock[0].Weapons[0].Name)
	assert.Equal(t, "Oak Staff", stock[0].Weapons[1].Name)
	assert.Equal(t, gamedata.RarityUncommon, stock[1].Rarity)

	s.Player.Gold = 500
	assert.Len(t, s.ShopStock(), 3)

	s.Player.Gold = 10
	assert.Empty(t, s.ShopStock())
}

func TestBuy(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, &rng.Scripted{})

	w, err := s.Buy(ctx, "hunter's bow")
	require.NoError(t, err)
	assert.Equal(t, "Hunter's Bow", w.ItemName())
	assert.True(t, s.Player.Has(w))
	assert.Equal(t, 10, s.Player.Gold)

	_, err = s.Buy(ctx, "Iron Mace")
	assert.ErrorIs(t, err, entity.ErrInsufficientGold)
	assert.Equal(t, 10, s.Player.Gold)

	_, err = s.Buy(ctx, "Mjolnir")
	assert.ErrorIs(t, err, ErrUnknownWeapon)
}

func TestEquipWeapon(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, &rng.Scripted{})
	_, err := s.Buy(ctx, "Oak Staff")
	require.NoError(t, err)

	w, err := s.EquipWeapon(1)
	require.NoError(t, err)
	assert.Equal(t, "Oak Staff", w.ItemName())
	assert.Equal(t, 18.0, s.Player.EffectiveAttack())

	_, err = s.EquipWeapon(5)
	assert.ErrorIs(t, err, ErrNoSuchItem)

	s.Player.Weapons()[0].SetDurability(0)
	_, err = s.EquipWeapon(0)
	assert.ErrorIs(t, err, entity.ErrWeaponBroken)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, &rng.Scripted{Floats: []float64{0.9, 0.9}})

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, save.ErrNoSave)
	assert.False(t, s.HasSave())

	_, err = s.Move(ctx, world.Up)
	require.NoError(t, err)
	_, err = s.Move(ctx, world.Right)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx))
	assert.True(t, s.HasSave())

	s.NewGame(ctx)
	require.Equal(t, entity.Point{}, s.Player.Position)

	restored, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, restored.Dropped)
	assert.Equal(t, 2, s.Moves)
	assert.Equal(t, entity.Point{X: 1, Y: 1}, s.Player.Position)
	assert.Equal(t, 3, s.World.DiscoveredCount())
	assert.Equal(t, "Rusty Sword", s.Player.Equipped().ItemName())

	info, err := s.SaveInfo()
	require.NoError(t, err)
	assert.Equal(t, "Aria", info.Name)

	require.NoError(t, s.DeleteSave())
	assert.False(t, s.HasSave())
}

func TestLoadOffGridSaveKeepsCurrentGame(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, &rng.Scripted{Floats: []float64{0.9}})
	_, err := s.Move(ctx, world.Up)
	require.NoError(t, err)

	data := `{"player": {"name": "Ghost", "max_health": 10, "level": 1, "position": [50, 50], "inventory": []},
		"world": {"width": 10, "height": 10, "discovered": []}, "version": "1.0"}`
	require.NoError(t, os.WriteFile(s.store.Path(), []byte(data), 0o644))

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, save.ErrCorruptSave)
	assert.Equal(t, "Aria", s.Player.Name)
	assert.Equal(t, entity.Point{X: 0, Y: 1}, s.Player.Position)
	assert.Equal(t, 1, s.Moves)
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateExplore, "explore"},
		{StateCombat, "combat"},
		{StateInventory, "inventory"},
		{StateShop, "shop"},
		{StateGameOver, "game_over"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
