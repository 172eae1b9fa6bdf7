// Package aggregate folds build sessions into durations, status and pace.
// Everything here is pure: no I/O, no clocks, inputs are never modified.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"bricktrack/internal/model"
)

// BagDuration is the total time spent on one bag number.
type BagDuration struct {
	BagNumber    int
	TotalSeconds int
}

// BagDurations groups sessions by bag number, sums each group and sorts by
// bag number ascending. Gaps in numbering are simply absent.
func BagDurations(sessions []model.Session) []BagDuration {
	if len(sessions) == 0 {
		return []BagDuration{}
	}
	byBag := make(map[int]int, len(sessions))
	for _, s := range sessions {
		byBag[s.BagNumber] += s.DurationInSeconds
	}
	out := make([]BagDuration, 0, len(byBag))
	for bag, secs := range byBag {
		out = append(out, BagDuration{BagNumber: bag, TotalSeconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BagNumber < out[j].BagNumber })
	return out
}

// TotalDuration sums every session's duration.
func TotalDuration(sessions []model.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.DurationInSeconds
	}
	return total
}

// CurrentBagWatermark is the highest bag number logged, or 0.
func CurrentBagWatermark(sessions []model.Session) int {
	watermark := 0
	for _, s := range sessions {
		if s.BagNumber > watermark {
			watermark = s.BagNumber
		}
	}
	return watermark
}

// DeriveStatus maps the watermark against the declared bag count. Bag numbers
// beyond totalBags are not clamped and complete the set.
func DeriveStatus(currentBag, totalBags int) model.Status {
	switch {
	case totalBags > 0 && currentBag >= totalBags:
		return model.StatusCompleted
	case currentBag > 0:
		return model.StatusInProgress
	default:
		return model.StatusPlanning
	}
}

// Pace is pieces per minute; 0 when no time has been logged.
func Pace(totalPieces, totalSeconds int) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	return float64(totalPieces) / (float64(totalSeconds) / 60)
}

// AverageBagSeconds is the mean time per logged bag; 0 when bagCount is 0.
func AverageBagSeconds(totalSeconds, bagCount int) float64 {
	if bagCount <= 0 {
		return 0
	}
	return float64(totalSeconds) / float64(bagCount)
}

// SetPace is the speed shown on a set's detail card: the set's declared
// pieces over its own logged minutes.
func SetPace(set model.Set) float64 {
	if len(set.Sessions) == 0 {
		return 0
	}
	return Pace(set.TotalPieces, TotalDuration(set.Sessions))
}

// GlobalStats summarizes the whole collection.
type GlobalStats struct {
	TotalSeconds            int
	TotalSets               int
	CompletedSets           int
	CompletedPieces         int
	CollectionPieces        int
	LoggedBags              int
	AverageBagSeconds       float64
	PiecesPerMinute         float64
	AverageTimePer100Pieces float64
}

// Global computes collection-wide stats. Pieces only count toward pace once
// a set is completed; CollectionPieces counts every set.
func Global(sets []model.Set) GlobalStats {
	st := GlobalStats{TotalSets: len(sets)}
	for _, s := range sets {
		st.TotalSeconds += TotalDuration(s.Sessions)
		st.LoggedBags += len(s.Sessions)
		st.CollectionPieces += s.TotalPieces
		if s.Status == model.StatusCompleted {
			st.CompletedSets++
			st.CompletedPieces += s.TotalPieces
		}
	}
	st.AverageBagSeconds = AverageBagSeconds(st.TotalSeconds, st.LoggedBags)
	st.PiecesPerMinute = Pace(st.CompletedPieces, st.TotalSeconds)
	if st.CompletedPieces > 0 {
		st.AverageTimePer100Pieces = float64(st.TotalSeconds) / float64(st.CompletedPieces) * 100
	}
	return st
}

// ChartRow is one bar of the per-bag chart.
type ChartRow struct {
	Bag     int
	Seconds int
	Minutes float64
}

// ChartRows turns per-bag durations into chart bars, minutes rounded to one
// decimal place.
func ChartRows(sessions []model.Session) []ChartRow {
	durations := BagDurations(sessions)
	rows := make([]ChartRow, 0, len(durations))
	for _, d := range durations {
		rows = append(rows, ChartRow{
			Bag:     d.BagNumber,
			Seconds: d.TotalSeconds,
			Minutes: math.Round(float64(d.TotalSeconds)/60*10) / 10,
		})
	}
	return rows
}

// FormatDuration renders seconds as "1h 5m", "3m 20s" or "45s".
func FormatDuration(seconds float64) string {
	total := int(math.Floor(seconds))
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
