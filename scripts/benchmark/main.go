package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
)

// CLI flags
var (
	apiURL      = flag.String("api-url", "http://localhost:3000", "gamegrab API base URL")
	apiKey      = flag.String("api-key", "", "API key for authenticated requests")
	runs        = flag.Int("runs", 3, "Number of runs per query")
	concurrency = flag.Int("concurrency", 2, "Requests in flight at once")
	output      = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Queries covering common, rare and unknown titles.
var testQueries = []string{
	"Elden Ring",
	"Minecraft",
	"Lethal Company",
	"Phasmophobia",
	"zzzz-no-such-game",
}

type searchResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Games   []struct {
		Title string `json:"title"`
	} `json:"games"`
}

// --- Benchmark result types ---

type runResult struct {
	Query     string `json:"query"`
	Run       int    `json:"run"`
	LatencyMs int64  `json:"latency_ms"`
	Status    int    `json:"status"`
	Games     int    `json:"games"`
	Error     string `json:"error,omitempty"`
}

type statusStats struct {
	Status int     `json:"status"`
	Count  int     `json:"count"`
	MinMs  int64   `json:"min_ms"`
	P50Ms  int64   `json:"p50_ms"`
	P95Ms  int64   `json:"p95_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
}

type benchmarkReport struct {
	Timestamp   string        `json:"timestamp"`
	APIURL      string        `json:"api_url"`
	Runs        int           `json:"runs_per_query"`
	Concurrency int           `json:"concurrency"`
	Results     []runResult   `json:"results"`
	ByStatus    []statusStats `json:"by_status"`
}

func main() {
	flag.Parse()

	fmt.Println("=== gamegrab Benchmark ===")
	fmt.Printf("API URL:     %s\n", *apiURL)
	fmt.Printf("Runs/query:  %d\n", *runs)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Output:      %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure gamegrab is running (e.g. go run ./cmd/gamegrab)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		Runs:        *runs,
		Concurrency: *concurrency,
	}

	client := &http.Client{Timeout: 120 * time.Second}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*concurrency, 1))

	for run := 1; run <= *runs; run++ {
		for _, q := range testQueries {
			g.Go(func() error {
				rr := search(ctx, client, q, run)
				mu.Lock()
				report.Results = append(report.Results, rr)
				mu.Unlock()

				if rr.Error != "" {
					fmt.Printf("  [%d] %-20s %5dms  status=%d  %s\n", rr.Run, q, rr.LatencyMs, rr.Status, rr.Error)
				} else {
					fmt.Printf("  [%d] %-20s %5dms  status=%d  games=%d\n", rr.Run, q, rr.LatencyMs, rr.Status, rr.Games)
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	report.ByStatus = summarise(report.Results)
	fmt.Println()
	printTable(report.ByStatus)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func search(ctx context.Context, client *http.Client, query string, run int) runResult {
	rr := runResult{Query: query, Run: run}

	bodyBytes, err := json.Marshal(map[string]string{"gameName": query})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *apiURL+"/api/search-game", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	rr.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.Status = resp.StatusCode

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	rr.Games = len(sr.Games)
	if resp.StatusCode >= 500 {
		rr.Error = strings.TrimSpace(sr.Code + " " + sr.Message)
	}
	return rr
}

func summarise(results []runResult) []statusStats {
	latencies := map[int][]int64{}
	for _, r := range results {
		latencies[r.Status] = append(latencies[r.Status], r.LatencyMs)
	}

	var out []statusStats
	for status, ls := range latencies {
		slices.Sort(ls)
		var sum int64
		for _, l := range ls {
			sum += l
		}
		out = append(out, statusStats{
			Status: status,
			Count:  len(ls),
			MinMs:  ls[0],
			P50Ms:  percentile(ls, 50),
			P95Ms:  percentile(ls, 95),
			MaxMs:  ls[len(ls)-1],
			AvgMs:  float64(sum) / float64(len(ls)),
		})
	}
	slices.SortFunc(out, func(a, b statusStats) int { return a.Status - b.Status })
	return out
}

// percentile expects sorted input.
func percentile(sorted []int64, p int) int64 {
	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}

func printTable(stats []statusStats) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Status\tCount\tMin\tP50\tP95\tMax\tAvg\n")
	fmt.Fprintf(w, "──────\t─────\t───\t───\t───\t───\t───\n")
	for _, s := range stats {
		label := fmt.Sprintf("%d", s.Status)
		if s.Status == 0 {
			label = "error"
		}
		fmt.Fprintf(w, "%s\t%d\t%dms\t%dms\t%dms\t%dms\t%.0fms\n",
			label, s.Count, s.MinMs, s.P50Ms, s.P95Ms, s.MaxMs, s.AvgMs)
	}
	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
