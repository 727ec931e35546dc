package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// rarityColors mirrors the badge colors players associate with each tier.
var rarityColors = map[Rarity]string{
	RarityCommon:    "#D0D0D0",
	RarityUncommon:  "#3CB44B",
	RarityRare:      "#4363D8",
	RarityEpic:      "#911EB4",
	RarityLegendary: "#FFD700",
}

// Color returns the display color for a rarity tier.
func (r Rarity) Color() tcell.Color {
	hex, ok := rarityColors[r]
	if !ok {
		return tcell.ColorWhite
	}
	color, err := ParseHexColor(hex)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(rgb>>16&0xFF), int32(rgb>>8&0xFF), int32(rgb&0xFF)), nil
}
