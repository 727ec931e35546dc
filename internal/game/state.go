// Package game ties the hero, the world and battles into a playable session
// and runs the terminal loop around it.
package game

// State is the screen the player is interacting with.
type State int

const (
	// StateExplore is free movement on the map.
	StateExplore State = iota
	// StateCombat is an active battle waiting for the hero's action.
	StateCombat
	// StateInventory lists carried items for equipping.
	StateInventory
	// StateShop lists weapons for sale.
	StateShop
	// StateGameOver follows the hero's defeat.
	StateGameOver
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateExplore:
		return "explore"
	case StateCombat:
		return "combat"
	case StateInventory:
		return "inventory"
	case StateShop:
		return "shop"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
