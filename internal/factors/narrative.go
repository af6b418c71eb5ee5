package factors

import (
	"fmt"
	"strings"
)

// DefenseAnalysis is the qualitative reading of a matchup: a tier label,
// a short description, and whether the matchup is an opportunity.
type DefenseAnalysis struct {
	Rating      string `json:"rating"`
	Description string `json:"description"`
	Opportunity bool   `json:"opportunity"`
}

// AnalyzeDefense classifies the position-specific defensive factor of an
// opponent into one of five tiers and appends pace and absence context.
// Missing defenders always force the opportunity flag.
func AnalyzeDefense(opponentCode, position string, missingDefenders []string, paceFactor float64) DefenseAnalysis {
	if _, ok := dvpRatings[opponentCode]; !ok {
		return DefenseAnalysis{Rating: "Inconnue", Description: "N/A"}
	}

	pos := NormalizePosition(position)
	base := DefensiveFactor(opponentCode, position)

	var analysis DefenseAnalysis
	switch {
	case base <= 0.92:
		analysis.Rating = "Elite 🛡️"
		analysis.Description = fmt.Sprintf("%s étouffe les %s.", opponentCode, pos)
	case base <= 0.98:
		analysis.Rating = "Solide 🔒"
		analysis.Description = fmt.Sprintf("%s défend bien sur ce poste.", opponentCode)
	case base <= 1.05:
		analysis.Rating = "Moyenne ⚖️"
		analysis.Description = fmt.Sprintf("Défense standard contre les %s.", pos)
	case base <= 1.10:
		analysis.Rating = "Faible 📉"
		analysis.Description = fmt.Sprintf("%s a du mal contre les %s.", opponentCode, pos)
		analysis.Opportunity = true
	default:
		analysis.Rating = "Passoire 🚨"
		analysis.Description = fmt.Sprintf("Autoroute pour les %s face à %s !", pos, opponentCode)
		analysis.Opportunity = true
	}

	if paceFactor > 1.02 {
		analysis.Description += " (Rythme rapide ⚡️)"
	} else if paceFactor < 0.97 {
		analysis.Description += " (Rythme lent 🐢)"
	}

	if len(missingDefenders) > 0 {
		analysis.Description += fmt.Sprintf(" ⚠️ %s OUT ! Défense affaiblie.", strings.Join(missingDefenders, ", "))
		analysis.Rating += " (Affaiblie)"
		analysis.Opportunity = true
	}

	return analysis
}
