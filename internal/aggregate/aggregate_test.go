package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"bricktrack/internal/model"

	"github.com/google/go-cmp/cmp"
)

func sess(bag, secs int) model.Session {
	return model.Session{BagNumber: bag, DurationInSeconds: secs}
}

func TestBagDurations_SumsRepeatedBags(t *testing.T) {
	got := BagDurations([]model.Session{sess(1, 60), sess(2, 90), sess(1, 30)})
	want := []BagDuration{{1, 90}, {2, 90}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BagDurations mismatch (-want +got):\n%s", diff)
	}
}

func TestBagDurations_Empty(t *testing.T) {
	got := BagDurations(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("BagDurations(nil)=%v, want empty slice", got)
	}
}

func TestBagDurations_OrderIndependent(t *testing.T) {
	sessions := []model.Session{sess(4, 10), sess(1, 60), sess(7, 5), sess(2, 90), sess(1, 30), sess(4, 20)}
	want := BagDurations(sessions)
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.Session(nil), sessions...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, BagDurations(shuffled)); diff != "" {
			t.Fatalf("shuffle %d changed output (-want +got):\n%s", i, diff)
		}
	}
	if want[0].BagNumber != 1 || want[len(want)-1].BagNumber != 7 {
		t.Fatalf("not sorted ascending: %v", want)
	}
}

func TestBagDurations_GapsStayAbsent(t *testing.T) {
	got := BagDurations([]model.Session{sess(3, 10), sess(9, 10)})
	if len(got) != 2 || got[0].BagNumber != 3 || got[1].BagNumber != 9 {
		t.Fatalf("unexpected gaps handling: %v", got)
	}
}

func TestTotalDuration(t *testing.T) {
	if TotalDuration(nil) != 0 {
		t.Fatal("TotalDuration(nil) should be 0")
	}
	if got := TotalDuration([]model.Session{sess(1, 120), sess(2, 180)}); got != 300 {
		t.Fatalf("TotalDuration=%d, want 300", got)
	}
}

func TestCurrentBagWatermark(t *testing.T) {
	if CurrentBagWatermark(nil) != 0 {
		t.Fatal("empty watermark should be 0")
	}
	orders := [][]model.Session{
		{sess(1, 1), sess(5, 1), sess(3, 1)},
		{sess(5, 1), sess(3, 1), sess(1, 1)},
		{sess(3, 1), sess(1, 1), sess(5, 1)},
	}
	for _, o := range orders {
		if got := CurrentBagWatermark(o); got != 5 {
			t.Fatalf("CurrentBagWatermark(%v)=%d, want 5", o, got)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for current := 0; current <= 10; current++ {
			got := DeriveStatus(current, total)
			switch {
			case current >= total:
				if got != model.StatusCompleted {
					t.Fatalf("DeriveStatus(%d,%d)=%s, want COMPLETED", current, total, got)
				}
			case current == 0:
				if got != model.StatusPlanning {
					t.Fatalf("DeriveStatus(%d,%d)=%s, want PLANNING", current, total, got)
				}
			default:
				if got != model.StatusInProgress {
					t.Fatalf("DeriveStatus(%d,%d)=%s, want IN_PROGRESS", current, total, got)
				}
			}
		}
	}
	if got := DeriveStatus(0, 0); got != model.StatusPlanning {
		t.Fatalf("DeriveStatus(0,0)=%s, want PLANNING", got)
	}
}

func TestDeriveStatus_MonotonicAfterCompletion(t *testing.T) {
	var sessions []model.Session
	completed := false
	for _, bag := range []int{1, 3, 2, 1, 2, 3, 1} {
		sessions = append(sessions, sess(bag, 10))
		st := DeriveStatus(CurrentBagWatermark(sessions), 3)
		if completed && st != model.StatusCompleted {
			t.Fatalf("status reverted to %s after completion", st)
		}
		completed = st == model.StatusCompleted
	}
	if !completed {
		t.Fatal("expected completion")
	}
}

func TestPace(t *testing.T) {
	if got := Pace(0, 0); got != 0 {
		t.Fatalf("Pace(0,0)=%v, want 0", got)
	}
	if got := Pace(500, 0); got != 0 || math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("Pace(500,0)=%v, want 0", got)
	}
	if got := Pace(500, 600); got != 50.0 {
		t.Fatalf("Pace(500,600)=%v, want 50", got)
	}
}

func TestAverageBagSeconds(t *testing.T) {
	if AverageBagSeconds(100, 0) != 0 {
		t.Fatal("zero bag count should give 0")
	}
	if got := AverageBagSeconds(300, 2); got != 150 {
		t.Fatalf("AverageBagSeconds=%v, want 150", got)
	}
}

func TestGlobal(t *testing.T) {
	sets := []model.Set{
		{TotalPieces: 200, Status: model.StatusCompleted, Sessions: []model.Session{sess(1, 120), sess(2, 180)}},
		{TotalPieces: 1000, Status: model.StatusInProgress, Sessions: []model.Session{sess(1, 300)}},
		{TotalPieces: 50, Status: model.StatusPlanning},
	}
	st := Global(sets)
	if st.TotalSeconds != 600 {
		t.Fatalf("TotalSeconds=%d, want 600", st.TotalSeconds)
	}
	if st.CompletedSets != 1 || st.CompletedPieces != 200 {
		t.Fatalf("completed=%d pieces=%d, want 1/200", st.CompletedSets, st.CompletedPieces)
	}
	if st.CollectionPieces != 1250 || st.TotalSets != 3 {
		t.Fatalf("collection=%d sets=%d", st.CollectionPieces, st.TotalSets)
	}
	if st.AverageBagSeconds != 200 {
		t.Fatalf("AverageBagSeconds=%v, want 200", st.AverageBagSeconds)
	}
	if st.PiecesPerMinute != 20 {
		t.Fatalf("PiecesPerMinute=%v, want 20", st.PiecesPerMinute)
	}
	if st.AverageTimePer100Pieces != 300 {
		t.Fatalf("AverageTimePer100Pieces=%v, want 300", st.AverageTimePer100Pieces)
	}
}

func TestGlobal_Empty(t *testing.T) {
	st := Global(nil)
	if st != (GlobalStats{}) {
		t.Fatalf("Global(nil)=%+v, want zero", st)
	}
}

func TestSetPace(t *testing.T) {
	s := model.Set{TotalPieces: 200, Sessions: []model.Session{sess(1, 120), sess(2, 180)}}
	if got := SetPace(s); got != 40 {
		t.Fatalf("SetPace=%v, want 40", got)
	}
	if got := SetPace(model.Set{TotalPieces: 200}); got != 0 {
		t.Fatalf("SetPace without sessions=%v, want 0", got)
	}
}

func TestChartRows(t *testing.T) {
	rows := ChartRows([]model.Session{sess(2, 95), sess(1, 60), sess(2, 5)})
	want := []ChartRow{
		{Bag: 1, Seconds: 60, Minutes: 1},
		{Bag: 2, Seconds: 100, Minutes: 1.7},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("ChartRows mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0s"},
		{45.7, "45s"},
		{200, "3m 20s"},
		{3900, "1h 5m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
