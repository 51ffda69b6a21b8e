package agent

// Confidence tuning. Kept as variables so deployments can recalibrate without
// touching the scoring logic.
var (
	confidenceFallbackBase  = 0.6
	confidenceAPIBase       = 0.7
	confidenceStructured    = 0.2
	confidenceDocumentBoost = 0.1
)

// confidenceScore grades an answer by the evidence behind it. An unrecovered
// error or a missing response scores zero; fallback answers start lower than
// provider answers; structured data and retrieval similarity add on top,
// capped at 1.
func confidenceScore(state *queryState) float64 {
	fallbackUsed, _ := state.metadata["fallback_used"].(bool)

	if state.err != "" && !fallbackUsed {
		return 0.0
	}
	if state.finalResponse == "" {
		return 0.0
	}

	score := confidenceAPIBase
	if fallbackUsed {
		score = confidenceFallbackBase
	}

	if state.structured != nil && state.structured.Success {
		score += confidenceStructured
	}

	if len(state.documentResults) > 0 {
		var sum float64
		for _, doc := range state.documentResults {
			sum += doc.Similarity
		}
		score += sum / float64(len(state.documentResults)) * confidenceDocumentBoost
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
