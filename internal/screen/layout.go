package screen

// Direction is the axis along which Split divides an area.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

type constraintKind int

const (
	kindLength constraintKind = iota
	kindPercentage
	kindMin
)

// Constraint describes the size of one segment in a Split.
type Constraint struct {
	kind  constraintKind
	value int
}

// Length is a fixed size segment.
func Length(n int) Constraint { return Constraint{kind: kindLength, value: max(n, 0)} }

// Percentage takes p percent of the space left after every Length segment.
func Percentage(p int) Constraint {
	return Constraint{kind: kindPercentage, value: min(max(p, 0), 100)}
}

// Min reserves at least n cells and absorbs any space left over.
func Min(n int) Constraint { return Constraint{kind: kindMin, value: max(n, 0)} }

// Split divides area along dir. The returned rects never overlap and tile
// area exactly.
func Split(area Rect, dir Direction, constraints ...Constraint) []Rect {
	total := area.Height
	if dir == Horizontal {
		total = area.Width
	}
	sizes := Solve(max(total, 0), constraints)

	rects := make([]Rect, len(sizes))
	offset := 0
	for i, s := range sizes {
		if dir == Horizontal {
			rects[i] = Rect{X: area.X + offset, Y: area.Y, Width: s, Height: area.Height}
		} else {
			rects[i] = Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: s}
		}
		offset += s
	}
	return rects
}

// Solve assigns a size to every constraint so that the sizes sum to total.
// Lengths are satisfied first, percentages share what the lengths leave, and
// Min segments take their reserve and then split the remainder evenly. The
// integer remainder goes to the last Min segment, or to the last segment when
// there is no Min.
func Solve(total int, constraints []Constraint) []int {
	sizes := make([]int, len(constraints))
	if len(constraints) == 0 {
		return sizes
	}
	remaining := total

	take := func(want int) int {
		s := min(want, remaining)
		remaining -= s
		return s
	}

	for i, c := range constraints {
		if c.kind == kindLength {
			sizes[i] = take(c.value)
		}
	}
	base := remaining
	for i, c := range constraints {
		if c.kind == kindPercentage {
			sizes[i] = take(base * c.value / 100)
		}
	}
	var flex []int
	for i, c := range constraints {
		if c.kind == kindMin {
			sizes[i] = take(c.value)
			flex = append(flex, i)
		}
	}

	if remaining > 0 {
		if len(flex) == 0 {
			sizes[len(sizes)-1] += remaining
		} else {
			share := remaining / len(flex)
			for _, i := range flex {
				sizes[i] += share
			}
			sizes[flex[len(flex)-1]] += remaining - share*len(flex)
		}
	}
	return sizes
}
