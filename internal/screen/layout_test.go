package screen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		constraints []Constraint
		want        []int
	}{
		{
			name:        "header body footer",
			total:       24,
			constraints: []Constraint{Length(6), Min(5), Length(2)},
			want:        []int{6, 16, 2},
		},
		{
			name:        "percentage of what lengths leave",
			total:       110,
			constraints: []Constraint{Length(10), Percentage(50), Min(0)},
			want:        []int{10, 50, 50},
		},
		{
			name:        "remainder goes to last min",
			total:       11,
			constraints: []Constraint{Min(0), Min(0), Min(0)},
			want:        []int{3, 3, 5},
		},
		{
			name:        "no min extends last segment",
			total:       10,
			constraints: []Constraint{Length(3), Length(3)},
			want:        []int{3, 7},
		},
		{
			name:        "lengths clamp when space runs out",
			total:       5,
			constraints: []Constraint{Length(4), Length(4), Min(2)},
			want:        []int{4, 1, 0},
		},
		{
			name:        "min reserve honoured before sharing",
			total:       20,
			constraints: []Constraint{Min(10), Min(2)},
			want:        []int{14, 6},
		},
		{
			name:  "empty constraints",
			total: 10,
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Solve(tt.total, tt.constraints))
		})
	}
}

func TestSplitTilesExactly(t *testing.T) {
	lists := [][]Constraint{
		{Length(1), Min(1)},
		{Percentage(33), Percentage(33), Min(0)},
		{Length(7), Percentage(25), Min(3), Length(2), Min(1)},
		{Percentage(50), Percentage(50)},
		{Length(0), Min(0)},
		{Min(4), Percentage(10), Min(4), Percentage(10)},
	}

	for li, cs := range lists {
		for w := 0; w <= 200; w++ {
			t.Run(fmt.Sprintf("list%d/w%d", li, w), func(t *testing.T) {
				area := Rect{X: 3, Y: 1, Width: w, Height: 4}
				rects := Split(area, Horizontal, cs...)
				require.Len(t, rects, len(cs))

				sum, x := 0, area.X
				for _, r := range rects {
					assert.GreaterOrEqual(t, r.Width, 0)
					assert.Equal(t, x, r.X, "segments must be contiguous")
					assert.Equal(t, area.Height, r.Height)
					x += r.Width
					sum += r.Width
				}
				assert.Equal(t, w, sum)
			})
		}
	}
}

func TestSplitVertical(t *testing.T) {
	rects := Split(Rect{X: 0, Y: 2, Width: 80, Height: 24}, Vertical, Length(4), Min(5), Length(1))
	require.Len(t, rects, 3)
	assert.Equal(t, Rect{X: 0, Y: 2, Width: 80, Height: 4}, rects[0])
	assert.Equal(t, Rect{X: 0, Y: 6, Width: 80, Height: 19}, rects[1])
	assert.Equal(t, Rect{X: 0, Y: 25, Width: 80, Height: 1}, rects[2])
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 10, Height: 5}

	assert.Equal(t, 50, r.Area())
	assert.Equal(t, 12, r.Right())
	assert.Equal(t, 8, r.Bottom())
	assert.Equal(t, Rect{X: 3, Y: 4, Width: 8, Height: 3}, r.Inset(1))
	assert.True(t, Rect{Width: 1}.Empty())
	assert.Equal(t, Rect{X: 5, Y: 3, Width: 7, Height: 2}, r.Intersect(Rect{X: 5, Y: 0, Width: 20, Height: 5}))
	assert.True(t, r.Intersect(Rect{X: 100, Y: 100, Width: 1, Height: 1}).Empty())
	assert.Equal(t, Rect{X: 2, Y: 5, Width: 10, Height: 1}, r.Row(2))
	assert.Equal(t, Rect{X: 4, Y: 4, Width: 6, Height: 3}, r.Centered(6, 3))
}
