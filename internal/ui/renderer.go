package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/world"
)

// Surface is what the renderer draws on. *Screen implements it.
type Surface interface {
	Clear()
	Show()
	SetContent(x, y int, r rune, style tcell.Style)
	Size() (width, height int)
}

// Panel selects what the side panel shows.
type Panel int

const (
	PanelExplore Panel = iota
	PanelCombat
	PanelInventory
	PanelShop
	PanelGameOver
)

// Frame is everything needed to draw one screen.
type Frame struct {
	Panel    Panel
	World    *world.World
	Player   *entity.Character
	Enemy    *entity.Enemy // set during combat
	Moves    int
	Shop     []*gamedata.WeaponDef
	Page     int // page of the inventory or shop list
	Messages []string
}

// PageSize is the number of list entries the 1-9 keys can pick from.
const PageSize = 9

// PageCount returns how many pages n list entries need, at least one.
func PageCount(n int) int {
	return max(1, (n+PageSize-1)/PageSize)
}

// pageBounds returns the slice bounds of page within n entries.
func pageBounds(n, page int) (start, end int) {
	page = max(0, min(page, PageCount(n)-1))
	start = page * PageSize
	return start, min(n, start+PageSize)
}

const (
	mapLeft    = 1
	mapTop     = 1
	cellWidth  = 2
	panelGap   = 4
	logLines   = 6
	hpBarWidth = 20
)

var (
	styleText     = styleBase
	styleDim      = styleBase.Foreground(tcell.ColorDarkGray)
	styleLabel    = styleBase.Foreground(tcell.ColorSilver)
	styleTitle    = styleBase.Foreground(tcell.ColorAqua).Bold(true)
	styleHero     = styleBase.Foreground(tcell.ColorYellow).Bold(true)
	styleHPGood   = styleBase.Foreground(tcell.ColorGreen)
	styleHPLow    = styleBase.Foreground(tcell.ColorRed)
	styleGold     = styleBase.Foreground(tcell.ColorGold)
	styleHelp     = styleBase.Foreground(tcell.ColorTeal)
	styleGameOver = styleBase.Foreground(tcell.ColorRed).Bold(true)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen Surface
}

// NewRenderer creates a new renderer for the given surface.
func NewRenderer(screen Surface) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the map, the hero's stats, the side panel and the message log.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()
	defer r.screen.Show()

	mapW := f.World.Width * cellWidth
	r.drawMap(f)

	px := mapLeft + mapW + panelGap
	y := r.drawStats(px, mapTop, f)
	y++

	switch f.Panel {
	case PanelCombat:
		y = r.drawCombat(px, y, f)
	case PanelInventory:
		y = r.drawInventory(px, y, f.Player, f.Page)
	case PanelShop:
		y = r.drawShop(px, y, f)
	case PanelGameOver:
		y = r.drawGameOver(px, y, f)
	}

	logTop := max(mapTop+f.World.Height+1, y+1)
	r.drawMessages(mapLeft, logTop, f.Messages)
	r.text(mapLeft, logTop+logLines+1, helpLine(f.Panel), styleHelp)
}

// drawMap draws the grid with the highest row at the top so "up" reads as north.
func (r *Renderer) drawMap(f Frame) {
	w := f.World
	for row := 0; row < w.Height; row++ {
		y := w.Height - 1 - row
		for x := 0; x < w.Width; x++ {
			tile := w.TileAt(entity.Point{X: x, Y: y}, f.Player.Position)
			r.screen.SetContent(mapLeft+x*cellWidth, mapTop+row, tile.Rune(), tileStyle(tile))
		}
	}
}

func tileStyle(t world.Tile) tcell.Style {
	switch t {
	case world.TileHero:
		return styleHero
	case world.TileExplored:
		return styleLabel
	default:
		return styleDim
	}
}

func (r *Renderer) drawStats(x, y int, f Frame) int {
	p := f.Player
	r.text(x, y, fmt.Sprintf("%s  Lv %d", p.Name, p.Level), styleTitle)
	y++
	r.hpBar(x, y, p.Health, p.MaxHealth)
	y++
	r.text(x, y, fmt.Sprintf("ATK %.1f  DEF %d", p.EffectiveAttack(), p.Defense), styleText)
	y++
	r.text(x, y, fmt.Sprintf("XP %d/%d", p.Experience, entity.XPPerLevel), styleText)
	y++
	r.text(x, y, fmt.Sprintf("Gold %d", p.Gold), styleGold)
	y++

	nx := r.text(x, y, "Weapon ", styleLabel)
	if w := p.Equipped(); w != nil {
		r.text(nx, y, weaponLabel(w), rarityStyle(w.Def.Rarity))
	} else {
		r.text(nx, y, "bare hands", styleDim)
	}
	y++
	r.text(x, y, fmt.Sprintf("Pos (%d, %d)  Moves %d", p.Position.X, p.Position.Y, f.Moves), styleLabel)
	return y + 1
}

func (r *Renderer) hpBar(x, y, hp, maxHP int) {
	filled := 0
	if maxHP > 0 {
		filled = hp * hpBarWidth / maxHP
	}
	style := styleHPGood
	if hp*4 <= maxHP {
		style = styleHPLow
	}
	nx := r.text(x, y, "HP ", styleLabel)
	nx = r.text(nx, y, strings.Repeat("█", filled), style)
	nx = r.text(nx, y, strings.Repeat("░", hpBarWidth-filled), styleDim)
	r.text(nx+1, y, fmt.Sprintf("%d/%d", hp, maxHP), styleText)
}

func (r *Renderer) drawCombat(x, y int, f Frame) int {
	e := f.Enemy
	if e == nil {
		return y
	}
	enemyStyle := styleBase.Foreground(e.Color()).Bold(true)
	r.screen.SetContent(x, y, e.Glyph(), enemyStyle)
	r.text(x+2, y, e.Name, enemyStyle)
	y++
	r.hpBar(x, y, e.Health, e.MaxHealth)
	y++
	r.text(x, y, fmt.Sprintf("ATK %.0f  DEF %d", e.EffectiveAttack(), e.Defense), styleText)
	return y + 1
}

func (r *Renderer) drawInventory(x, y int, p *entity.Character, page int) int {
	r.text(x, y, "Inventory", styleTitle)
	y++
	weapons := p.Weapons()
	if len(weapons) == 0 {
		r.text(x, y, "No weapons.", styleDim)
		y++
	}
	start, end := pageBounds(len(weapons), page)
	for i, w := range weapons[start:end] {
		nx := r.text(x, y, fmt.Sprintf("%d. ", i+1), styleLabel)
		nx = r.text(nx, y, weaponLabel(w), rarityStyle(w.Def.Rarity))
		switch {
		case w == p.Equipped():
			r.text(nx+1, y, "(equipped)", styleHero)
		case w.Broken():
			r.text(nx+1, y, "(broken)", styleHPLow)
		}
		y++
	}
	y = r.drawPageFooter(x, y, len(weapons), page)
	for _, c := range p.Collectibles() {
		r.text(x, y, "   "+c.ItemName(), styleText)
		y++
	}
	return y
}

func (r *Renderer) drawShop(x, y int, f Frame) int {
	r.text(x, y, "Weapon Shop", styleTitle)
	y++
	if len(f.Shop) == 0 {
		r.text(x, y, "Nothing you can afford.", styleDim)
		return y + 1
	}
	start, end := pageBounds(len(f.Shop), f.Page)
	for i, w := range f.Shop[start:end] {
		nx := r.text(x, y, fmt.Sprintf("%d. ", i+1), styleLabel)
		nx = r.text(nx, y, fmt.Sprintf("%s +%.0f", w.Name, w.Attack), rarityStyle(w.Rarity))
		r.text(nx+1, y, fmt.Sprintf("%dg", w.Cost), styleGold)
		y++
	}
	return r.drawPageFooter(x, y, len(f.Shop), f.Page)
}

// drawPageFooter shows "Page i/n" when a list spans more than one page.
func (r *Renderer) drawPageFooter(x, y, n, page int) int {
	pages := PageCount(n)
	if pages == 1 {
		return y
	}
	page = max(0, min(page, pages-1))
	r.text(x, y, fmt.Sprintf("Page %d/%d  [ ] turn page", page+1, pages), styleLabel)
	return y + 1
}

func (r *Renderer) drawGameOver(x, y int, f Frame) int {
	r.text(x, y, "YOU HAVE FALLEN", styleGameOver)
	r.text(x, y+1, fmt.Sprintf("Level %d after %d moves", f.Player.Level, f.Moves), styleText)
	return y + 2
}

func (r *Renderer) drawMessages(x, y int, msgs []string) {
	start := max(0, len(msgs)-logLines)
	for i, msg := range msgs[start:] {
		r.text(x, y+i, msg, styleText)
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) int {
	w, _ := r.screen.Size()
	for _, ch := range s {
		if x >= w {
			break
		}
		r.screen.SetContent(x, y, ch, style)
		x++
	}
	return x
}

func weaponLabel(w *entity.OwnedWeapon) string {
	if w.Unbreakable() {
		return fmt.Sprintf("%s +%.0f [∞]", w.ItemName(), w.AttackBonus())
	}
	return fmt.Sprintf("%s +%.0f [%d/%d]", w.ItemName(), w.AttackBonus(), w.Durability(), w.Def.MaxDurability)
}

func rarityStyle(r gamedata.Rarity) tcell.Style {
	return styleBase.Foreground(r.Color())
}

func helpLine(p Panel) string {
	switch p {
	case PanelCombat:
		return "[a] attack  [d] defend  [f] flee"
	case PanelInventory:
		return "[1-9] equip  [ ] page  [u] unequip  [esc] back"
	case PanelShop:
		return "[1-9] buy  [ ] page  [esc] back"
	case PanelGameOver:
		return "[n] new game  [l] load  [q] quit"
	default:
		return "[arrows/wasd] move  [e] explore  [r] rest  [i] inventory  [b] shop  [p] save  [l] load  [q] quit"
	}
}
