package save

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/world"
)

// Restored is a game rebuilt from a record.
type Restored struct {
	Player     *entity.Character
	Width      int
	Height     int
	Discovered []entity.Point
	Moves      int
	Version    string
	Dropped    []string // weapon names missing from the catalog
}

// Serialize captures the hero and the world in a record.
func Serialize(player *entity.Character, w *world.World, moves int) *Record {
	p := &PlayerRecord{
		Name:       player.Name,
		Health:     player.Health,
		MaxHealth:  player.MaxHealth,
		BaseAttack: player.BaseAttack,
		Attack:     player.EffectiveAttack(),
		Defense:    player.Defense,
		Position:   [2]int{player.Position.X, player.Position.Y},
		Level:      player.Level,
		Experience: player.Experience,
		Gold:       player.Gold,
		MovesCount: moves,
		Inventory:  []InventoryEntry{},
	}
	if eq := player.Equipped(); eq != nil {
		p.EquippedWeapon = snapshot(eq)
	}
	for _, it := range player.Inventory() {
		switch v := it.(type) {
		case *entity.OwnedWeapon:
			p.Inventory = append(p.Inventory, InventoryEntry{Weapon: snapshot(v)})
		case entity.Collectible:
			p.Inventory = append(p.Inventory, InventoryEntry{ItemName: string(v)})
		}
	}

	wr := &WorldRecord{Width: w.Width, Height: w.Height, Discovered: [][2]int{}}
	for _, pt := range w.Discovered() {
		wr.Discovered = append(wr.Discovered, [2]int{pt.X, pt.Y})
	}

	return &Record{Player: p, World: wr, Version: Version}
}

func snapshot(w *entity.OwnedWeapon) *WeaponSnapshot {
	return &WeaponSnapshot{
		Name:          w.Def.Name,
		Attack:        w.Def.Attack,
		Rarity:        string(w.Def.Rarity),
		Durability:    w.Durability(),
		MaxDurability: w.Def.MaxDurability,
		Cost:          w.Def.Cost,
		WeaponType:    w.Def.Type,
		SpecialEffect: w.Def.Effect,
		Description:   w.Def.Description,
	}
}

// Deserialize rebuilds the hero from rec, resolving every weapon against catalog.
// Weapons the catalog no longer has are dropped with a warning.
func Deserialize(rec *Record, catalog *gamedata.Catalog) (*Restored, error) {
	return deserialize(rec, catalog, slog.Default())
}

func deserialize(rec *Record, catalog *gamedata.Catalog, log *slog.Logger) (*Restored, error) {
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptSave, describe(err))
	}
	if rec.Version != Version {
		log.Warn("save version differs", "version", rec.Version, "expected", Version)
	}

	pr := rec.Player
	if x, y := pr.Position[0], pr.Position[1]; x < 0 || x >= rec.World.Width || y < 0 || y >= rec.World.Height {
		return nil, fmt.Errorf("%w: position (%d, %d) outside %dx%d world", ErrCorruptSave, x, y, rec.World.Width, rec.World.Height)
	}
	c := entity.NewCharacter(pr.Name, pr.MaxHealth, pr.BaseAttack, pr.Defense)
	c.Health = pr.Health
	c.Level = pr.Level
	c.Experience = pr.Experience
	c.Gold = pr.Gold
	c.Position = entity.Point{X: pr.Position[0], Y: pr.Position[1]}

	out := &Restored{
		Player:  c,
		Width:   rec.World.Width,
		Height:  rec.World.Height,
		Moves:   pr.MovesCount,
		Version: rec.Version,
	}

	resolve := func(s *WeaponSnapshot) *entity.OwnedWeapon {
		def := catalog.FindByName(s.Name)
		if def == nil {
			log.Warn("dropping unknown weapon from save", "weapon", s.Name)
			out.Dropped = append(out.Dropped, s.Name)
			return nil
		}
		w := entity.NewOwnedWeapon(def)
		w.SetDurability(s.Durability)
		return w
	}

	for _, entry := range pr.Inventory {
		if entry.Weapon == nil {
			c.AddItem(entity.Collectible(entry.ItemName))
			continue
		}
		if w := resolve(entry.Weapon); w != nil {
			c.AddItem(w)
		}
	}

	if s := pr.EquippedWeapon; s != nil {
		w := bindEquipped(c, s)
		if w == nil {
			w = resolve(s)
		}
		if w != nil {
			if err := c.Equip(w); err != nil {
				log.Warn("saved weapon cannot be equipped", "weapon", s.Name, "error", err)
			}
		}
	}

	c.Recompute()

	for _, pt := range rec.World.Discovered {
		out.Discovered = append(out.Discovered, entity.Point{X: pt[0], Y: pt[1]})
	}
	return out, nil
}

// bindEquipped finds the carried copy matching the saved equipped weapon,
// preferring one with the same durability.
func bindEquipped(c *entity.Character, s *WeaponSnapshot) *entity.OwnedWeapon {
	var byName *entity.OwnedWeapon
	for _, w := range c.Weapons() {
		if !strings.EqualFold(w.Def.Name, s.Name) {
			continue
		}
		if w.Durability() == s.Durability {
			return w
		}
		if byName == nil {
			byName = w
		}
	}
	return byName
}
