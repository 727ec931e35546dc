// Package world provides the fixed-size grid the hero explores.
package world

// Tile is what the map shows for one cell.
type Tile rune

const (
	// TileUnknown is a cell the hero has never visited.
	TileUnknown Tile = '?'
	// TileExplored is a visited cell.
	TileExplored Tile = '.'
	// TileHero marks the hero's current cell.
	TileHero Tile = '@'
)

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
