package gateway

import (
	"encoding/json"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/model"
)

// SetSummary is the per-set record embedded in the insight prompt.
type SetSummary struct {
	Name             string  `json:"name"`
	Pieces           int     `json:"pieces"`
	Bags             int     `json:"bags"`
	TotalTimeSeconds int     `json:"totalTimeSeconds"`
	BagAverage       float64 `json:"bagAverage"`
}

// Summarize reduces sets to what the insight prompt needs. BagAverage is the
// mean duration per logged session.
func Summarize(sets []model.Set) []SetSummary {
	out := make([]SetSummary, 0, len(sets))
	for _, s := range sets {
		total := aggregate.TotalDuration(s.Sessions)
		out = append(out, SetSummary{
			Name:             s.Name,
			Pieces:           s.TotalPieces,
			Bags:             s.TotalBags,
			TotalTimeSeconds: total,
			BagAverage:       aggregate.AverageBagSeconds(total, len(s.Sessions)),
		})
	}
	return out
}

// fitBudget encodes summaries and drops entries from the tail (the oldest
// sets) until the JSON fits budget tokens. At least one entry is kept.
func fitBudget(summaries []SetSummary, tok *Tokenizer, budget int) (string, int) {
	dropped := 0
	for {
		data, err := json.Marshal(summaries)
		if err != nil {
			return "[]", dropped
		}
		if budget <= 0 || len(summaries) <= 1 || tok.CountText(string(data)) <= budget {
			return string(data), dropped
		}
		summaries = summaries[:len(summaries)-1]
		dropped++
	}
}
