package main

import "testing"

func TestPercentile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	tests := []struct {
		p    int
		want int64
	}{
		{50, 50},
		{95, 100},
		{100, 100},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("p%d = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestSummarise(t *testing.T) {
	results := []runResult{
		{Status: 200, LatencyMs: 300},
		{Status: 404, LatencyMs: 900},
		{Status: 200, LatencyMs: 100},
		{Status: 200, LatencyMs: 200},
	}
	stats := summarise(results)
	if len(stats) != 2 {
		t.Fatalf("got %d status groups, want 2", len(stats))
	}
	ok := stats[0]
	if ok.Status != 200 || ok.Count != 3 || ok.MinMs != 100 || ok.MaxMs != 300 || ok.P50Ms != 200 || ok.AvgMs != 200 {
		t.Errorf("200 stats = %+v", ok)
	}
	if stats[1].Status != 404 || stats[1].Count != 1 {
		t.Errorf("404 stats = %+v", stats[1])
	}
}
