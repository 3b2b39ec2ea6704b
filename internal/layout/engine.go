// Package layout implements the deterministic geometry behind chair
// auto-placement, grid snapping and proximity auto-connect. Everything here
// is pure math over the scene store; no I/O and no randomness, so repeated
// runs with the same inputs reproduce the same positions.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/entradix/seatmap-editor/internal/model"
	"github.com/entradix/seatmap-editor/internal/scene"
)

// Config carries the layout tunables. Distances are canvas pixels.
type Config struct {
	Margin              float64 // clearance between table edge and chair center line
	ChairSize           float64 // default chair diameter
	ConnectionThreshold float64 // max Euclidean distance for auto-connect
	GridSize            float64 // snap grid cell size
}

// DefaultConfig mirrors the editor defaults.
func DefaultConfig() Config {
	return Config{
		Margin:              25,
		ChairSize:           20,
		ConnectionThreshold: 50,
		GridSize:            20,
	}
}

// Angular jitter between chairs sharing one hexagon side or star point,
// in radians. Keeps multiple chairs on the same facet from overlapping.
const (
	hexSideJitter  = 0.3
	starPointJitter = 0.2
)

// ChairSpec describes how many chairs to generate for a table. Count
// drives circle and rect tables; hexagon and star tables take explicit
// per-side / per-point counts.
type ChairSpec struct {
	Count    int
	PerSide  [6]int // hexagon sides, clockwise from the rightmost
	PerPoint [5]int // star points, clockwise from the rightmost
}

// Total returns the number of chairs the spec will produce for a shape.
func (sp ChairSpec) Total(shape model.TableShape) int {
	switch shape {
	case model.TableHexagon:
		n := 0
		for _, c := range sp.PerSide {
			n += c
		}
		return n
	case model.TableStar:
		n := 0
		for _, c := range sp.PerPoint {
			n += c
		}
		return n
	default:
		return sp.Count
	}
}

var ErrNoChairs = errors.New("chair spec produces no chairs")

// Generate produces the chairs for a table according to its shape. Chairs
// come back numbered 1..N in placement order, in the available state, and
// are not yet added to any store.
func Generate(t *model.Table, sp ChairSpec, cfg Config) ([]*model.Chair, error) {
	if sp.Total(t.Shape) < 1 {
		return nil, ErrNoChairs
	}
	switch t.Shape {
	case model.TableCircle:
		return PlaceCircle(t, sp.Count, cfg), nil
	case model.TableRect:
		return PlaceRect(t, sp.Count, cfg), nil
	case model.TableHexagon:
		return placeRadial(t, sp.PerSide[:], math.Pi/3, hexSideJitter, cfg), nil
	case model.TableStar:
		return placeRadial(t, sp.PerPoint[:], 2*math.Pi/5, starPointJitter, cfg), nil
	}
	return nil, fmt.Errorf("unsupported table shape %q", t.Shape)
}

// PlaceCircle distributes k chairs around a circular table. Seat 1 sits at
// the top (−π/2) and numbering proceeds clockwise at even 2π/k steps. The
// chair ring radius clears the table edge by the configured margin plus
// half a chair.
func PlaceCircle(t *model.Table, k int, cfg Config) []*model.Chair {
	center := t.Center()
	ring := t.OuterRadius() + cfg.Margin + cfg.ChairSize/2
	chairs := make([]*model.Chair, 0, k)
	for i := 0; i < k; i++ {
		theta := float64(i)*(2*math.Pi)/float64(k) - math.Pi/2
		chairs = append(chairs, newChair(t, i+1, model.Vec2{
			X: center.X + ring*math.Cos(theta),
			Y: center.Y + ring*math.Sin(theta),
		}, cfg))
	}
	return chairs
}

// PlaceRect distributes k chairs across the four sides of a rect table in
// the order top, right, bottom, left. Each side receives
// ceil(remaining/sidesLeft) chairs, which biases the remainder toward the
// earlier sides and guarantees all k chairs are placed for any k.
func PlaceRect(t *model.Table, k int, cfg Config) []*model.Chair {
	counts := rectSideCounts(k)
	return PlaceRectSides(t, counts, cfg)
}

// PlaceRectSides places explicit per-side chair counts around a rect table
// (order: top, right, bottom, left). Chairs on each side are evenly spaced
// along the side's length and offset outward by the margin.
func PlaceRectSides(t *model.Table, counts [4]int, cfg Config) []*model.Chair {
	total := counts[0] + counts[1] + counts[2] + counts[3]
	chairs := make([]*model.Chair, 0, total)
	seat := 1
	place := func(p model.Vec2) {
		chairs = append(chairs, newChair(t, seat, p, cfg))
		seat++
	}
	// top
	for i := 0; i < counts[0]; i++ {
		step := t.Width / float64(counts[0])
		place(model.Vec2{
			X: t.Position.X + step*float64(i) + step/2,
			Y: t.Position.Y - cfg.Margin,
		})
	}
	// right
	for i := 0; i < counts[1]; i++ {
		step := t.Height / float64(counts[1])
		place(model.Vec2{
			X: t.Position.X + t.Width + cfg.Margin,
			Y: t.Position.Y + step*float64(i) + step/2,
		})
	}
	// bottom
	for i := 0; i < counts[2]; i++ {
		step := t.Width / float64(counts[2])
		place(model.Vec2{
			X: t.Position.X + step*float64(i) + step/2,
			Y: t.Position.Y + t.Height + cfg.Margin,
		})
	}
	// left
	for i := 0; i < counts[3]; i++ {
		step := t.Height / float64(counts[3])
		place(model.Vec2{
			X: t.Position.X - cfg.Margin,
			Y: t.Position.Y + step*float64(i) + step/2,
		})
	}
	return chairs
}

// rectSideCounts splits k chairs over four sides, each side taking
// ceil(remaining/sidesLeft).
func rectSideCounts(k int) [4]int {
	var counts [4]int
	remaining := k
	for side := 0; side < 4; side++ {
		sidesLeft := 4 - side
		n := (remaining + sidesLeft - 1) / sidesLeft
		counts[side] = n
		remaining -= n
	}
	return counts
}

// placeRadial handles hexagon sides and star points: each facet has a base
// angle (facet index times the facet step) and its chairs fan out around
// that base with a small fixed jitter so they do not stack.
func placeRadial(t *model.Table, perFacet []int, facetStep, jitter float64, cfg Config) []*model.Chair {
	center := t.Center()
	ring := t.OuterRadius() + cfg.Margin + cfg.ChairSize/2
	var chairs []*model.Chair
	seat := 1
	for facet, n := range perFacet {
		if n < 1 {
			continue
		}
		base := float64(facet) * facetStep
		for i := 0; i < n; i++ {
			theta := base + (float64(i)-float64(n-1)/2)*jitter
			chairs = append(chairs, newChair(t, seat, model.Vec2{
				X: center.X + ring*math.Cos(theta),
				Y: center.Y + ring*math.Sin(theta),
			}, cfg))
			seat++
		}
	}
	return chairs
}

func newChair(t *model.Table, seat int, pos model.Vec2, cfg Config) *model.Chair {
	ch := &model.Chair{
		Common: model.Common{
			ID:       scene.NewID("chair"),
			Position: pos,
		},
		ParentTableID: t.ID,
		Shape:         model.ChairCircle,
		Size:          cfg.ChairSize,
		SeatNumber:    seat,
	}
	ch.ApplyState(model.SeatAvailable)
	return ch
}

// Regenerate replaces a table's chairs with a freshly generated and
// renumbered set in one atomic store transition. The old chairs (and any
// connection touching them) never coexist with the new numbering.
func Regenerate(s *scene.Store, tableID string, sp ChairSpec, cfg Config) ([]*model.Chair, error) {
	el, ok := s.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("table %s not found", tableID)
	}
	t, ok := el.(*model.Table)
	if !ok {
		return nil, fmt.Errorf("element %s is not a table", tableID)
	}
	chairs, err := Generate(t, sp, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.ReplaceChairs(tableID, chairs); err != nil {
		return nil, err
	}
	return chairs, nil
}

// AutoConnect creates a connection from the starting chair to every other
// chair within the threshold distance, skipping pairs that are already
// connected. The new connections are added to the store and returned.
func AutoConnect(s *scene.Store, chairID string, style model.ConnectionStyle, cfg Config) ([]*model.Connection, error) {
	el, ok := s.Get(chairID)
	if !ok {
		return nil, fmt.Errorf("chair %s not found", chairID)
	}
	start, ok := el.(*model.Chair)
	if !ok {
		return nil, fmt.Errorf("element %s is not a chair", chairID)
	}
	var created []*model.Connection
	for _, other := range s.Elements() {
		ch, isChair := other.(*model.Chair)
		if !isChair || ch.ID == start.ID {
			continue
		}
		if dist(start.Position, ch.Position) > cfg.ConnectionThreshold {
			continue
		}
		if s.Connected(start.ID, ch.ID) {
			continue
		}
		cn := &model.Connection{
			Common:       model.Common{ID: scene.NewID("connection")},
			StartChairID: start.ID,
			EndChairID:   ch.ID,
			Style:        style,
		}
		if _, err := s.Add(cn); err != nil {
			return created, err
		}
		created = append(created, cn)
	}
	return created, nil
}

// SnapToGrid rounds every positioned element's coordinates to the nearest
// grid multiple. Connections carry no meaningful position and are skipped.
// Returns how many elements actually moved.
func SnapToGrid(s *scene.Store, gridSize float64) int {
	if gridSize <= 0 {
		return 0
	}
	moved := 0
	for _, el := range s.Elements() {
		if el.ElementType() == model.TypeConnection {
			continue
		}
		p := el.Pos()
		snapped := model.Vec2{
			X: math.Round(p.X/gridSize) * gridSize,
			Y: math.Round(p.Y/gridSize) * gridSize,
		}
		if snapped != p {
			el.SetPos(snapped)
			moved++
		}
	}
	return moved
}

func dist(a, b model.Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
