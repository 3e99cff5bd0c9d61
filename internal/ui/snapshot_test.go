package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/proctop/internal/config"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/stretchr/testify/assert"
)

func snapshotModel() *model.Model {
	opts := config.Default().ModelOptions()
	first := sample(t0, baseProcs(0)...)
	prev := model.Build(&first, nil, opts)
	second := sample(t0.Add(time.Second), baseProcs(250*time.Millisecond)...)
	return model.Build(&second, prev, opts)
}

func TestRenderSnapshot(t *testing.T) {
	m := snapshotModel()
	out := RenderSnapshot(m, SnapshotOptions{
		Columns: config.Default().ColumnSet(),
		Meters:  true,
	})

	assert.Contains(t, out, "proctop")
	assert.Contains(t, out, "box")
	for _, card := range []string{"CPU", "Memory", "IO / NET", "Tasks"} {
		assert.Contains(t, out, card)
	}
	assert.Contains(t, out, "4 total")
	assert.Contains(t, out, "Command")
	assert.Contains(t, out, "sshd --flag")
	assert.Contains(t, out, "25.0")

	// busiest process first
	assert.Less(t, strings.Index(out, "sshd --flag"), strings.Index(out, "cron --flag"))
}

func TestRenderSnapshotLimitAndNoMeters(t *testing.T) {
	m := snapshotModel()
	out := RenderSnapshot(m, SnapshotOptions{
		Columns: []model.Column{model.ColPID, model.ColCommand},
		Limit:   1,
	})

	assert.NotContains(t, out, "IO / NET")
	assert.Contains(t, out, "sshd --flag")
	assert.Less(t, strings.Index(out, "PID"), strings.Index(out, "sshd --flag"), "header row comes first")
	assert.NotContains(t, out, "cron")
	assert.NotContains(t, out, "USER")
}

func TestGaugeBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]  50.0%", gaugeBar(50, 10))
	assert.Equal(t, "[░░░░░░░░░░]   0.0%", gaugeBar(-3, 10))
	assert.Equal(t, "[██████████] 100.0%", gaugeBar(250, 10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
