package narrative

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/yhjeon/assemblybook/internal/aggregate"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestKeylessGeneratorFallsBack(t *testing.T) {
	g := New(context.Background(), "", testLogger())
	got := g.Summarize(context.Background(), aggregate.Summary{TotalOffering: 100000}, nil)
	if got != Fallback {
		t.Fatalf("Summarize = %q, want fallback", got)
	}
}

func TestPromptContainsFigures(t *testing.T) {
	sum := aggregate.Summary{
		TotalOffering:   106000,
		TotalExpenses:   5000,
		NetBookBalance:  101000,
		TotalAttendance: 107,
	}
	rows := []aggregate.Row{
		{Category: "Operations", Name: "Operations", Amount: 5000},
		{Category: "Praise Team", Name: "Praise Team", Amount: 0},
	}
	p := prompt(sum, rows)
	if !strings.Contains(p, "Operations") {
		t.Fatalf("prompt lacks spent category: %s", p)
	}
	if strings.Contains(p, "Praise Team") {
		t.Fatalf("zero-amount category listed: %s", p)
	}
	if !strings.Contains(p, "107") {
		t.Fatalf("prompt lacks attendance: %s", p)
	}
}
