package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/terminalrealm/internal/combat"
	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/logger"
	"github.com/samdwyer/terminalrealm/internal/save"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
	"github.com/samdwyer/terminalrealm/internal/ui"
	"github.com/samdwyer/terminalrealm/internal/world"
)

const maxMessages = 50

// Game runs a Session in the terminal.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	log      *slog.Logger
	state    State
	shop     []*gamedata.WeaponDef
	page     int // inventory or shop page
	messages []string
	running  bool
}

// New opens the terminal screen for session.
func New(session *Session, log *slog.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(session, log, screen), nil
}

func newGame(session *Session, log *slog.Logger, screen *ui.Screen) *Game {
	g := &Game{
		screen:  screen,
		session: session,
		log:     log,
		state:   StateExplore,
		running: true,
	}
	if screen != nil {
		g.renderer = ui.NewRenderer(screen)
	}
	return g
}

// Run executes the main game loop until the player quits.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	sessionID := logger.NewSessionID()
	ctx = logger.WithSessionID(ctx, sessionID)

	_, span := telemetry.Tracer("game").Start(ctx, "game.init")
	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("catalog.weapons", g.session.Catalog.Count()),
		attribute.Int("world.width", g.session.World.Width),
		attribute.Int("world.height", g.session.World.Height),
	)
	span.End()

	logger.FromContext(ctx, g.log).Info("session started", "player", g.session.Player.Name)
	g.addMessages(fmt.Sprintf("Welcome, %s. The realm awaits.", g.session.Player.Name))
	if g.session.HasSave() {
		g.addMessages("A saved game exists. Press [l] to load it.")
	}

	for g.running {
		g.renderer.Render(g.frame())
		g.handleInput(ctx)
	}

	logger.FromContext(ctx, g.log).Info("session ended", "moves", g.session.Moves, "level", g.session.Player.Level)
	return nil
}

func (g *Game) frame() ui.Frame {
	s := g.session
	f := ui.Frame{
		World:    s.World,
		Player:   s.Player,
		Moves:    s.Moves,
		Messages: g.messages,
	}
	switch g.state {
	case StateCombat:
		f.Panel = ui.PanelCombat
		if s.Battle != nil {
			f.Enemy = s.Battle.Enemy
		}
	case StateInventory:
		f.Panel = ui.PanelInventory
		f.Page = g.page
	case StateShop:
		f.Panel = ui.PanelShop
		f.Shop = g.shop
		f.Page = g.page
	case StateGameOver:
		f.Panel = ui.PanelGameOver
	}
	return f
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKey(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKey processes keyboard input.
func (g *Game) handleKey(ctx context.Context, ev *tcell.EventKey) {
	g.dispatch(ctx, ev.Key(), ev.Rune())
}

// dispatch routes a key press to the current state.
func (g *Game) dispatch(ctx context.Context, key tcell.Key, r rune) {
	if key == tcell.KeyCtrlC {
		g.running = false
		return
	}

	switch g.state {
	case StateExplore:
		g.handleExploreKey(ctx, key, r)
	case StateCombat:
		g.handleCombatKey(ctx, key, r)
	case StateInventory:
		g.handleInventoryKey(key, r)
	case StateShop:
		g.handleShopKey(ctx, key, r)
	case StateGameOver:
		g.handleGameOverKey(ctx, key, r)
	}
}

func (g *Game) handleExploreKey(ctx context.Context, key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		g.running = false
	case tcell.KeyUp:
		g.move(ctx, world.Up)
	case tcell.KeyDown:
		g.move(ctx, world.Down)
	case tcell.KeyLeft:
		g.move(ctx, world.Left)
	case tcell.KeyRight:
		g.move(ctx, world.Right)
	case tcell.KeyRune:
		switch r {
		case 'w', 'W':
			g.move(ctx, world.Up)
		case 's', 'S':
			g.move(ctx, world.Down)
		case 'a', 'A':
			g.move(ctx, world.Left)
		case 'd', 'D':
			g.move(ctx, world.Right)
		case 'e', 'E':
			g.apply(g.session.Explore(ctx))
		case 'r', 'R':
			g.apply(g.session.Rest(ctx))
		case 'i', 'I':
			g.page = 0
			g.state = StateInventory
		case 'b', 'B':
			g.shop = g.shop[:0]
			for _, tier := range g.session.ShopStock() {
				g.shop = append(g.shop, tier.Weapons...)
			}
			g.page = 0
			g.state = StateShop
		case 'p', 'P':
			g.save(ctx)
		case 'l', 'L':
			g.load(ctx)
		case 'q', 'Q':
			g.running = false
		}
	}
}

func (g *Game) move(ctx context.Context, dir world.Direction) {
	g.apply(g.session.Move(ctx, dir))
}

func (g *Game) handleCombatKey(ctx context.Context, key tcell.Key, r rune) {
	if key != tcell.KeyRune {
		return
	}
	var action combat.Action
	switch r {
	case 'a', 'A':
		action = combat.Attack
	case 'd', 'D':
		action = combat.Defend
	case 'f', 'F':
		action = combat.Flee
	default:
		return
	}
	g.apply(g.session.Fight(ctx, action))
}

func (g *Game) handleInventoryKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		g.state = StateExplore
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch {
	case r == '[' || r == ']':
		g.turnPage(r, len(g.session.Player.Weapons()))
	case r >= '1' && r <= '9':
		w, err := g.session.EquipWeapon(g.page*ui.PageSize + int(r-'1'))
		switch {
		case errors.Is(err, entity.ErrWeaponBroken):
			g.addMessages("That weapon is broken.")
		case err != nil:
			g.addMessages("No weapon in that slot.")
		default:
			g.addMessages(fmt.Sprintf("You equip the %s.", w.ItemName()))
		}
	case r == 'u' || r == 'U':
		if w := g.session.Player.Unequip(); w != nil {
			g.addMessages(fmt.Sprintf("You put away the %s.", w.ItemName()))
		}
	case r == 'i' || r == 'I':
		g.state = StateExplore
	}
}

func (g *Game) handleShopKey(ctx context.Context, key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		g.state = StateExplore
		return
	case tcell.KeyRune:
	default:
		return
	}

	if r == 'b' || r == 'B' {
		g.state = StateExplore
		return
	}
	if r == '[' || r == ']' {
		g.turnPage(r, len(g.shop))
		return
	}
	idx := g.page*ui.PageSize + int(r-'1')
	if r < '1' || r > '9' || idx >= len(g.shop) {
		return
	}

	def := g.shop[idx]
	w, err := g.session.Buy(ctx, def.Name)
	switch {
	case errors.Is(err, entity.ErrInsufficientGold):
		g.addMessages(fmt.Sprintf("You can't afford the %s.", def.Name))
	case err != nil:
		g.addMessages(err.Error())
	default:
		g.addMessages(fmt.Sprintf("You bought the %s for %d gold.", w.ItemName(), def.Cost))
	}
}

// turnPage moves back on '[' and forward on ']' through a list of n entries,
// stopping at either end.
func (g *Game) turnPage(r rune, n int) {
	if r == '[' {
		g.page = max(0, g.page-1)
		return
	}
	g.page = min(ui.PageCount(n)-1, g.page+1)
}

func (g *Game) handleGameOverKey(ctx context.Context, key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		g.running = false
	case tcell.KeyRune:
		switch r {
		case 'n', 'N':
			g.session.NewGame(ctx)
			g.state = StateExplore
			g.addMessages("A new adventure begins.")
		case 'l', 'L':
			g.load(ctx)
		case 'q', 'Q':
			g.running = false
		}
	}
}

// apply shows a command's report and moves to the state it implies.
func (g *Game) apply(r Report, err error) {
	if err != nil {
		g.addMessages(err.Error())
		return
	}
	g.addMessages(r.Messages...)

	switch {
	case g.session.Over():
		g.state = StateGameOver
	case g.session.Battle != nil:
		g.state = StateCombat
	default:
		g.state = StateExplore
	}
}

func (g *Game) save(ctx context.Context) {
	if err := g.session.Save(ctx); err != nil {
		g.addMessages("Save failed: " + err.Error())
		return
	}
	g.addMessages("Game saved.")
}

func (g *Game) load(ctx context.Context) {
	restored, err := g.session.Load(ctx)
	switch {
	case errors.Is(err, save.ErrNoSave):
		g.addMessages("No saved game found.")
		return
	case errors.Is(err, save.ErrCorruptSave):
		logger.FromContext(ctx, g.log).Warn("save unreadable", "error", err)
		g.addMessages("The save file is damaged. Continuing with the current game.")
		return
	case err != nil:
		g.addMessages("Load failed: " + err.Error())
		return
	}

	g.state = StateExplore
	if g.session.Over() {
		g.state = StateGameOver
	}
	p := g.session.Player
	g.addMessages(fmt.Sprintf("Welcome back, %s. Level %d, HP %d/%d.", p.Name, p.Level, p.Health, p.MaxHealth))
	for _, name := range restored.Dropped {
		g.addMessages(fmt.Sprintf("The %s is no longer known to this realm and was lost.", name))
	}
}

func (g *Game) addMessages(msgs ...string) {
	g.messages = append(g.messages, msgs...)
	if over := len(g.messages) - maxMessages; over > 0 {
		g.messages = g.messages[over:]
	}
}
