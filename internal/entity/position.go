package entity

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Add returns the point offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}
