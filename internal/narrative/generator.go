// Package narrative produces short verdict texts for bet candidates.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
)

// Request carries the projection context a verdict is written from
type Request struct {
	PlayerName   string
	Market       models.StatCategory
	Projection   float64
	Line         float64
	SuccessRate  float64 // fraction of past games over the line
	DefenseNote  string
	MissingStars []string
}

// Generator produces a verdict text for one candidate. Implementations
// must treat the verdict as best-effort: a scan never fails because a
// verdict could not be produced.
type Generator interface {
	Verdict(ctx context.Context, req Request) (string, error)
}

// Margin beyond which the rule-based generator calls a value bet
const valueMargin = 1.5

// marketLabels maps categories to their French display names
var marketLabels = map[models.StatCategory]string{
	models.StatPoints:            "points",
	models.StatRebounds:          "rebonds",
	models.StatAssists:           "passes",
	models.StatThreePointersMade: "tirs à 3 points",
	models.StatSteals:            "interceptions",
	models.StatBlocks:            "contres",
}

// RuleBased is the offline verdict generator. It is also the fallback
// when the LLM endpoint is disabled or unreachable.
type RuleBased struct{}

// NewRuleBased creates the rule-based generator
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Verdict renders a deterministic verdict from the projection-line gap
func (g *RuleBased) Verdict(_ context.Context, req Request) (string, error) {
	if req.Line <= 0 {
		return "", nil
	}

	label := marketLabels[req.Market]
	if label == "" {
		label = string(req.Market)
	}

	diff := req.Projection - req.Line

	var sb strings.Builder
	switch {
	case diff >= valueMargin:
		fmt.Fprintf(&sb, "VALUE BET : OVER probable. Projection %.1f %s contre une ligne à %.1f.", req.Projection, label, req.Line)
	case diff <= -valueMargin:
		fmt.Fprintf(&sb, "VALUE BET : UNDER probable. Projection %.1f %s contre une ligne à %.1f.", req.Projection, label, req.Line)
	default:
		fmt.Fprintf(&sb, "Ligne serrée (%.1f projeté pour %.1f), prudence recommandée.", req.Projection, req.Line)
	}

	if req.SuccessRate > 0 {
		fmt.Fprintf(&sb, " Ligne dépassée dans %.0f%% des derniers matchs.", req.SuccessRate*100)
	}
	if len(req.MissingStars) > 0 {
		fmt.Fprintf(&sb, " Usage en hausse : %s absent(s).", strings.Join(req.MissingStars, ", "))
	}
	if req.DefenseNote != "" {
		sb.WriteString(" " + req.DefenseNote)
	}

	return sb.String(), nil
}
