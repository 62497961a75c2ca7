// Package narrative turns the derived summary into a short stewardship
// report via the Gemini API. The call is best-effort: one request, no retry,
// and any failure (missing key, network, empty candidates) yields a fixed
// fallback string instead of an error.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	"github.com/yhjeon/assemblybook/internal/book"
)

// Fallback is returned whenever a generated report is unavailable. The
// computed totals remain authoritative either way.
const Fallback = "An automated stewardship summary is not available right now. The totals above remain authoritative."

const model = "gemini-1.5-flash"

// Generator wraps a Gemini model. A zero-value or keyless Generator always
// answers with Fallback.
type Generator struct {
	model *genai.GenerativeModel
	log   *slog.Logger
}

// New builds a Generator. With an empty API key the generator is inert and
// every Summarize call falls back.
func New(ctx context.Context, apiKey string, logger *slog.Logger) *Generator {
	g := &Generator{log: logger}
	if strings.TrimSpace(apiKey) == "" {
		logger.Warn("narrative generator disabled: no API key configured")
		return g
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("narrative client init failed", "err", err)
		return g
	}
	g.model = client.GenerativeModel(model)
	return g
}

// Summarize produces report prose for the given figures. It never returns an
// error; callers always get usable text.
func (g *Generator) Summarize(ctx context.Context, sum aggregate.Summary, rows []aggregate.Row) string {
	if g.model == nil {
		return Fallback
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt(sum, rows)))
	if err != nil {
		g.log.Error("narrative generation failed", "err", err)
		return Fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Fallback
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// prompt renders the figures into the instruction sent to the model.
func prompt(sum aggregate.Summary, rows []aggregate.Row) string {
	var spent []string
	for _, row := range rows {
		if row.Amount > 0 {
			spent = append(spent, fmt.Sprintf("%s (%s)", row.Name, book.Won(row.Amount)))
		}
	}
	return fmt.Sprintf(`The following are this assembly's offering and expense figures.
Write a warm, encouraging pastoral accounting summary based on them.

[Figures]
- Total offerings: %s
- Total expenses: %s
- Balance: %s
- Total attendance: %d
- Main expense items: %s

The report should contain:
1. A short word of thanks and scriptural encouragement
2. A summary of the financial position
3. A brief comment on faithful stewardship of the funds
4. A closing line in the spirit of a benediction
`,
		book.Won(sum.TotalOffering),
		book.Won(sum.TotalExpenses),
		book.Won(sum.NetBookBalance),
		sum.TotalAttendance,
		strings.Join(spent, ", "))
}
