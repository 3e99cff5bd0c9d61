package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRingBuffer(t *testing.T) {
	h := NewHistory(3)
	assert.Nil(t, h.Last(SeriesCPU, 5))

	for _, v := range []float64{1, 2, 3, 4, 5} {
		h.Add(SeriesCPU, v)
	}
	assert.Equal(t, 3, h.Count(SeriesCPU))
	assert.Equal(t, []float64{3, 4, 5}, h.Last(SeriesCPU, 10))
	assert.Equal(t, []float64{4, 5}, h.Last(SeriesCPU, 2))
	assert.Nil(t, h.Last(SeriesCPU, 0))
}

func TestHistoryPush(t *testing.T) {
	h := NewHistory(0)
	h.Push(&Model{CPU: 12, MemPercent: 40, SwapPercent: 1})
	h.Push(nil)

	assert.Equal(t, []float64{12}, h.Last(SeriesCPU, DefaultHistorySize))
	assert.Equal(t, []float64{40}, h.Last(SeriesMem, 1))
	assert.Equal(t, []float64{1}, h.Last(SeriesSwap, 1))
	assert.Zero(t, h.Count("gpu"))
}
