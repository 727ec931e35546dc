package gamedata

import "strings"

// Rarity is one of the five quality bands that drive drop weighting.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// NoEffect is the sentinel used in weapon files for "no special effect".
const NoEffect = "None"

// rarityWeights are the drop weights per tier; they sum to 100.
var rarityWeights = map[Rarity]int{
	RarityCommon:    50,
	RarityUncommon:  25,
	RarityRare:      15,
	RarityEpic:      8,
	RarityLegendary: 2,
}

// Rarities returns the tiers from most to least common.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// Weight returns the drop weight for the tier, 0 for unknown tiers.
func (r Rarity) Weight() int {
	return rarityWeights[r]
}

// WeaponDef is a canonical weapon definition loaded from the weapon file.
// Definitions are shared read-only; per-copy durability lives on entity.OwnedWeapon.
type WeaponDef struct {
	Name          string
	Attack        float64
	Rarity        Rarity
	MaxDurability int // 0 means unbreakable
	Cost          int
	Type          string
	Effect        string
	Description   string
}

// Unbreakable reports whether copies of this weapon never lose durability.
func (w *WeaponDef) Unbreakable() bool {
	return w.MaxDurability == 0
}

// HasEffect reports whether the weapon carries a special effect.
func (w *WeaponDef) HasEffect() bool {
	return w.Effect != "" && !strings.EqualFold(w.Effect, NoEffect)
}

func (w *WeaponDef) String() string {
	return w.Name + " (" + string(w.Rarity) + ")"
}
