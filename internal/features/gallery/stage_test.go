package gallery

import "testing"

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		from, to int
		name     string
		weight   float64
	}{
		{0, 3, "Wisp", 0.40},
		{4, 7, "Spirit Orb", 0.55},
		{8, 14, "Baby Ghost", 0.70},
		{15, 30, "Ghost", 0.85},
		{31, 400, "Phantom", 1.00},
	}
	for _, tt := range tests {
		for s := tt.from; s <= tt.to; s++ {
			got := ClassifyStage(s)
			if got.Name != tt.name || got.VisualWeight != tt.weight {
				t.Fatalf("ClassifyStage(%d) = %+v, want %s/%.2f", s, got, tt.name, tt.weight)
			}
		}
	}
}

func TestClassifyStage_Boundaries(t *testing.T) {
	pairs := [][2]int{{3, 4}, {7, 8}, {14, 15}, {30, 31}}
	for _, p := range pairs {
		if ClassifyStage(p[0]).Name == ClassifyStage(p[1]).Name {
			t.Fatalf("expected stage change between %d and %d", p[0], p[1])
		}
	}
}

func TestClassifyStage_NegativeClampsToZero(t *testing.T) {
	if got := ClassifyStage(-5); got != ClassifyStage(0) {
		t.Fatalf("expected negative length to classify as 0, got %+v", got)
	}
}

func TestClassifyStage_WeightsInRange(t *testing.T) {
	for s := 0; s < 200; s++ {
		w := ClassifyStage(s).VisualWeight
		if w <= 0 || w > 1 {
			t.Fatalf("weight for %d out of (0,1]: %v", s, w)
		}
	}
}
