package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/world"
)

// fakeSurface records drawn runes in a fixed grid.
type fakeSurface struct {
	w, h  int
	cells [][]rune
	shown int
}

func newFakeSurface(w, h int) *fakeSurface {
	f := &fakeSurface{w: w, h: h}
	f.Clear()
	return f
}

func (f *fakeSurface) Clear() {
	f.cells = make([][]rune, f.h)
	for y := range f.cells {
		f.cells[y] = []rune(strings.Repeat(" ", f.w))
	}
}

func (f *fakeSurface) Show() { f.shown++ }

func (f *fakeSurface) SetContent(x, y int, r rune, _ tcell.Style) {
	if x >= 0 && x < f.w && y >= 0 && y < f.h {
		f.cells[y][x] = r
	}
}

func (f *fakeSurface) Size() (int, int) { return f.w, f.h }

func (f *fakeSurface) line(y int) string { return string(f.cells[y]) }

func (f *fakeSurface) contains(s string) bool {
	for y := range f.cells {
		if strings.Contains(f.line(y), s) {
			return true
		}
	}
	return false
}

var sword = gamedata.WeaponDef{Name: "Rusty Sword", Attack: 5, Rarity: gamedata.RarityCommon, MaxDurability: 10, Cost: 25}

func testFrame() Frame {
	w := world.New(3, 3, nil, nil)
	hero := entity.NewCharacter("Aria", 100, 15, 5)
	_ = hero.Equip(entity.NewOwnedWeapon(&sword))
	hero.Position = entity.Point{X: 1, Y: 2}
	w.Discover(entity.Point{X: 0, Y: 0})
	w.Discover(hero.Position)
	return Frame{World: w, Player: hero, Moves: 4, Messages: []string{"Welcome."}}
}

func TestRenderMapOrientation(t *testing.T) {
	s := newFakeSurface(120, 30)
	NewRenderer(s).Render(testFrame())

	// Top map row is y=2, where the hero stands at x=1.
	if got := s.cells[mapTop][mapLeft+1*cellWidth]; got != '@' {
		t.Errorf("hero cell = %q, want '@'", got)
	}
	// Bottom map row is y=0, discovered at x=0.
	if got := s.cells[mapTop+2][mapLeft]; got != '.' {
		t.Errorf("origin cell = %q, want '.'", got)
	}
	if got := s.cells[mapTop+1][mapLeft]; got != '?' {
		t.Errorf("unvisited cell = %q, want '?'", got)
	}
	if s.shown != 1 {
		t.Errorf("Show called %d times, want 1", s.shown)
	}
}

func TestRenderStats(t *testing.T) {
	s := newFakeSurface(120, 30)
	NewRenderer(s).Render(testFrame())

	for _, want := range []string{"Aria  Lv 1", "100/100", "ATK 20.0  DEF 5", "Gold 100", "Rusty Sword +5 [10/10]", "Moves 4", "Welcome.", "[e] explore"} {
		if !s.contains(want) {
			t.Errorf("screen missing %q", want)
		}
	}
}

func TestRenderPanels(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Frame)
		want  []string
	}{
		{
			name: "combat",
			setup: func(f *Frame) {
				f.Panel = PanelCombat
				f.Enemy = entity.NewEnemy("Goblin", 30, 8, 2, entity.Reward{})
			},
			want: []string{"Goblin", "30/30", "[a] attack"},
		},
		{
			name: "inventory",
			setup: func(f *Frame) {
				f.Panel = PanelInventory
				f.Player.AddItem(entity.Collectible("Old Map"))
			},
			want: []string{"Inventory", "1. Rusty Sword", "(equipped)", "Old Map"},
		},
		{
			name: "shop",
			setup: func(f *Frame) {
				f.Panel = PanelShop
				f.Shop = []*gamedata.WeaponDef{&sword}
			},
			want: []string{"Weapon Shop", "1. Rusty Sword +5", "25g"},
		},
		{
			name:  "empty shop",
			setup: func(f *Frame) { f.Panel = PanelShop },
			want:  []string{"Nothing you can afford."},
		},
		{
			name:  "game over",
			setup: func(f *Frame) { f.Panel = PanelGameOver },
			want:  []string{"YOU HAVE FALLEN", "after 4 moves", "[n] new game"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame()
			tt.setup(&f)
			s := newFakeSurface(120, 30)
			NewRenderer(s).Render(f)
			for _, want := range tt.want {
				if !s.contains(want) {
					t.Errorf("screen missing %q", want)
				}
			}
		})
	}
}

func TestRenderKeepsLastMessages(t *testing.T) {
	f := testFrame()
	f.Messages = nil
	for i := range 10 {
		f.Messages = append(f.Messages, "msg"+string(rune('A'+i)))
	}
	s := newFakeSurface(120, 30)
	NewRenderer(s).Render(f)

	if s.contains("msgD") {
		t.Error("old message still shown")
	}
	if !s.contains("msgE") || !s.contains("msgJ") {
		t.Error("recent messages missing")
	}
}

func TestRenderClipsToWidth(t *testing.T) {
	s := newFakeSurface(20, 30)
	NewRenderer(s).Render(testFrame()) // must not panic on narrow terminals
}

func TestPageCount(t *testing.T) {
	for n, want := range map[int]int{0: 1, 1: 1, 9: 1, 10: 2, 18: 2, 19: 3} {
		if got := PageCount(n); got != want {
			t.Errorf("PageCount(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestRenderShopPages(t *testing.T) {
	var stock []*gamedata.WeaponDef
	for i := range 11 {
		stock = append(stock, &gamedata.WeaponDef{Name: "Blade " + string(rune('A'+i)), Attack: 1, Cost: 5})
	}

	tests := []struct {
		name    string
		page    int
		want    []string
		missing []string
	}{
		{name: "first", page: 0, want: []string{"1. Blade A", "9. Blade I", "Page 1/2"}, missing: []string{"Blade J"}},
		{name: "second", page: 1, want: []string{"1. Blade J", "2. Blade K", "Page 2/2"}, missing: []string{"Blade A"}},
		{name: "past the end", page: 7, want: []string{"1. Blade J", "Page 2/2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame()
			f.Panel = PanelShop
			f.Shop = stock
			f.Page = tt.page
			s := newFakeSurface(120, 40)
			NewRenderer(s).Render(f)
			for _, want := range tt.want {
				if !s.contains(want) {
					t.Errorf("screen missing %q", want)
				}
			}
			for _, gone := range tt.missing {
				if s.contains(gone) {
					t.Errorf("screen shows %q from another page", gone)
				}
			}
		})
	}
}

func TestRenderInventorySinglePageHasNoFooter(t *testing.T) {
	f := testFrame()
	f.Panel = PanelInventory
	s := newFakeSurface(120, 30)
	NewRenderer(s).Render(f)

	if s.contains("Page 1/1") {
		t.Error("single page list shows a page footer")
	}
}

func TestPaletteKeepsBackdrop(t *testing.T) {
	for _, style := range []tcell.Style{styleText, styleDim, styleTitle, styleHPLow, styleGold, styleHelp, rarityStyle(gamedata.RarityRare)} {
		if _, bg, _ := style.Decompose(); bg != tcell.ColorBlack {
			t.Errorf("style background = %v, want black", bg)
		}
	}
}
