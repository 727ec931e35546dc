package world

import (
	"cmp"
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/terminalrealm/internal/entity"
	"github.com/samdwyer/terminalrealm/internal/gamedata"
	"github.com/samdwyer/terminalrealm/internal/rng"
	"github.com/samdwyer/terminalrealm/internal/telemetry"
)

const (
	// Default world dimensions.
	DefaultWidth  = 10
	DefaultHeight = 10
)

// Direction is a compass move on the grid. Up increases Y.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

var deltas = map[Direction]entity.Point{
	Up:    {X: 0, Y: 1},
	Down:  {X: 0, Y: -1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

// World is the grid, the set of visited cells and the shared weapon catalog.
type World struct {
	Width   int
	Height  int
	Catalog *gamedata.Catalog

	discovered map[entity.Point]struct{}
	rng        rng.Source
}

// New creates an empty world.
func New(width, height int, catalog *gamedata.Catalog, src rng.Source) *World {
	if catalog == nil {
		catalog = gamedata.NewCatalog(nil)
	}
	return &World{
		Width:      width,
		Height:     height,
		Catalog:    catalog,
		discovered: make(map[entity.Point]struct{}),
		rng:        src,
	}
}

// InBounds reports whether p lies on the grid.
func (w *World) InBounds(p entity.Point) bool {
	return p.X >= 0 && p.X < w.Width && p.Y >= 0 && p.Y < w.Height
}

// Move steps c one cell in dir and marks the new cell discovered.
// Moves off the edge are refused and leave c where it was.
func (w *World) Move(ctx context.Context, c *entity.Character, dir Direction) (entity.Point, bool) {
	_, span := telemetry.Tracer("world").Start(ctx, "world.move")
	defer span.End()

	delta, ok := deltas[dir]
	if !ok {
		return c.Position, false
	}
	next := c.Position.Add(delta)
	span.SetAttributes(
		attribute.String("direction", string(dir)),
		attribute.Int("to_x", next.X),
		attribute.Int("to_y", next.Y),
	)
	if !w.InBounds(next) {
		span.SetAttributes(attribute.Bool("blocked", true))
		return c.Position, false
	}

	c.Position = next
	w.Discover(next)
	return next, true
}

// Discover marks p as visited. Off-grid points are ignored.
func (w *World) Discover(p entity.Point) {
	if w.InBounds(p) {
		w.discovered[p] = struct{}{}
	}
}

// RestoreDiscovered replaces the visited set, skipping off-grid points.
func (w *World) RestoreDiscovered(points []entity.Point) {
	clear(w.discovered)
	for _, p := range points {
		w.Discover(p)
	}
}

// IsDiscovered reports whether p has been visited.
func (w *World) IsDiscovered(p entity.Point) bool {
	_, ok := w.discovered[p]
	return ok
}

// DiscoveredCount returns the number of visited cells.
func (w *World) DiscoveredCount() int {
	return len(w.discovered)
}

// Discovered returns the visited cells ordered by row then column.
func (w *World) Discovered() []entity.Point {
	out := make([]entity.Point, 0, len(w.discovered))
	for p := range w.discovered {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b entity.Point) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	return out
}

// TileAt returns what the map shows at p for a hero standing at hero.
func (w *World) TileAt(p, hero entity.Point) Tile {
	switch {
	case p == hero:
		return TileHero
	case w.IsDiscovered(p):
		return TileExplored
	default:
		return TileUnknown
	}
}
