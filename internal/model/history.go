package model

// DefaultHistorySize is the default number of data points to retain per metric.
const DefaultHistorySize = 120

// Series names tracked by History.
const (
	SeriesCPU  = "cpu"
	SeriesMem  = "mem"
	SeriesSwap = "swap"
)

// History keeps a fixed number of recent values per metric for the header
// sparklines. It is owned by the tick loop and is not safe for concurrent use.
type History struct {
	size   int
	series map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{data: make([]float64, size)}
}

func (r *ringBuffer) push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// last returns up to n of the newest values, oldest first.
func (r *ringBuffer) last(n int) []float64 {
	if n <= 0 || r.count == 0 {
		return nil
	}
	n = min(n, r.count)
	out := make([]float64, n)
	start := (r.head - n + len(r.data)) % len(r.data)
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// NewHistory creates a history with the given buffer size per metric.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, series: make(map[string]*ringBuffer)}
}

// Add appends v to the named series.
func (h *History) Add(name string, v float64) {
	rb, ok := h.series[name]
	if !ok {
		rb = newRingBuffer(h.size)
		h.series[name] = rb
	}
	rb.push(v)
}

// Push records the machine-wide figures of m.
func (h *History) Push(m *Model) {
	if m == nil {
		return
	}
	h.Add(SeriesCPU, m.CPU)
	h.Add(SeriesMem, m.MemPercent)
	h.Add(SeriesSwap, m.SwapPercent)
}

// Last returns up to count of the newest values of a series, oldest first.
func (h *History) Last(name string, count int) []float64 {
	rb, ok := h.series[name]
	if !ok {
		return nil
	}
	return rb.last(count)
}

// Count returns the number of values stored for a series.
func (h *History) Count(name string) int {
	if rb, ok := h.series[name]; ok {
		return rb.count
	}
	return 0
}
