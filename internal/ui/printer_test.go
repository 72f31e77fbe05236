package ui

import (
	"bytes"
	"testing"

	"github.com/sqve/shipit/internal/config"
	"github.com/stretchr/testify/assert"
)

func plainPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	config.Global.Plain = true
	t.Cleanup(func() { config.Global.Plain = false })

	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut), &out, &errOut
}

func TestPrinterPlain(t *testing.T) {
	p, out, errOut := plainPrinter(t)

	p.Success("Pushed %s", "main")
	p.Info("Pushing")
	p.Warning("Config file missing: %s", "app.yaml")
	p.Error("push failed")

	assert.Equal(t, "Pushed main\nPushing\nWarning: Config file missing: app.yaml\n", out.String())
	assert.Equal(t, "Error: push failed\n", errOut.String())
}

func TestPrinterSymbols(t *testing.T) {
	config.Global.Plain = false
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Success("done")
	p.Error("broken")

	assert.Contains(t, out.String(), "✓")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "✗")
}

func TestPrinterStepAndDetail(t *testing.T) {
	p, out, _ := plainPrinter(t)

	p.Step(2, 4, "Committing changes")
	p.Detail("abc1234 Auto-deploy")

	assert.Equal(t, "Step 2/4: Committing changes\n   abc1234 Auto-deploy\n", out.String())
}

func TestStepFormat(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		total   int
		message string
		want    string
	}{
		{"first of three", 1, 3, "Checking repository", "Step 1/3: Checking repository"},
		{"last of four", 4, 4, "Pushing", "Step 4/4: Pushing"},
		{"step zero returns message only", 0, 5, "Invalid", "Invalid"},
		{"total zero returns message only", 1, 0, "Invalid", "Invalid"},
		{"step exceeds total returns message only", 10, 3, "Invalid", "Invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StepFormat(tt.step, tt.total, tt.message))
		})
	}
}
