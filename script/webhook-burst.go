package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/middleware"
)

// WebhookPayload is the body the upstream pushes on a status change
type WebhookPayload struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Hash      string `json:"hash,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Response represents the webhook acknowledgement
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Reference    string
	Status       string
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	ReferenceStats     map[string]int
	StatusCodeStats    map[int]int
	Lock               sync.Mutex
}

// Delivery is one webhook to send; duplicates are intentional
type Delivery struct {
	Reference string
	Status    string
}

// Replays bursts of duplicate, out-of-order webhooks against a running service so the
// terminal guard and duplicate-notification suppression can be observed under load.
func main() {
	concurrency := flag.Int("c", 8, "Number of concurrent goroutines")
	copies := flag.Int("n", 20, "Deliveries of each status per reference")
	refsStr := flag.String("refs", "ref-1", "Comma-separated list of references to target")
	statusesStr := flag.String("statuses", "PROCESSING,COMPLETED,FAILED", "Comma-separated statuses to deliver")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the service")
	secret := flag.String("secret", "", "Webhook HMAC secret; unsigned when empty")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	refs := splitList(*refsStr)
	statuses := splitList(*statusesStr)
	if len(refs) == 0 || len(statuses) == 0 {
		fmt.Println("At least one reference and one status are required")
		return
	}

	var deliveries []Delivery
	for _, ref := range refs {
		for _, status := range statuses {
			for i := 0; i < *copies; i++ {
				deliveries = append(deliveries, Delivery{Reference: ref, Status: status})
			}
		}
	}
	rand.Shuffle(len(deliveries), func(i, j int) {
		deliveries[i], deliveries[j] = deliveries[j], deliveries[i]
	})

	fmt.Printf("Sending %d webhooks for %d references: %v\n", len(deliveries), len(refs), refs)
	fmt.Printf("Statuses: %v, %d copies each\n", statuses, *copies)
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)

	stats := &TestStats{
		TotalRequests:   len(deliveries),
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, len(deliveries)),
		ReferenceStats:  make(map[string]int),
		StatusCodeStats: make(map[int]int),
	}

	results := make(chan TestResult, len(deliveries))
	jobs := make(chan Delivery, len(deliveries))

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(*baseURL, *secret, *delayMs, jobs, results)
		}()
	}

	for _, d := range deliveries {
		jobs <- d
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	wg.Wait()
	close(results)
	<-collected
	stats.TotalTime = time.Since(startTime)

	printResults(stats)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		errMsg := "unknown"
		if result.Error != nil {
			errMsg = result.Error.Error()
		}
		s.ErrorCounts[errMsg]++
	}
	s.ReferenceStats[result.Reference]++
	s.StatusCodeStats[result.StatusCode]++

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	s.MinResponseTime = min(s.MinResponseTime, result.ResponseTime)
	s.MaxResponseTime = max(s.MaxResponseTime, result.ResponseTime)
}

func worker(baseURL, secret string, delayMs int, jobs <-chan Delivery, results chan<- TestResult) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	for d := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		payload := WebhookPayload{
			Reference: d.Reference,
			Status:    d.Status,
			Message:   "load test",
		}
		if d.Status == "COMPLETED" {
			payload.Hash = fmt.Sprintf("0x%064x", rand.Uint64())
		}

		body, err := json.Marshal(payload)
		if err != nil {
			results <- TestResult{Reference: d.Reference, Status: d.Status, Error: err}
			continue
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+"/webhook", bytes.NewReader(body))
		if err != nil {
			results <- TestResult{Reference: d.Reference, Status: d.Status, Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set(middleware.SignatureHeader, middleware.SignBody(secret, body))
		}

		startTime := time.Now()
		resp, err := client.Do(req)
		result := TestResult{
			Reference:    d.Reference,
			Status:       d.Status,
			ResponseTime: time.Since(startTime),
		}

		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			var ack Response
			_ = json.NewDecoder(resp.Body).Decode(&ack)
			resp.Body.Close()

			result.Success = resp.StatusCode == http.StatusOK && ack.Success
			if !result.Success {
				result.Error = fmt.Errorf("HTTP status code %d: %s", resp.StatusCode, ack.Message)
			}
		}

		results <- result
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[min(len(sorted)-1, len(sorted)*p/100)]
}

func printResults(stats *TestStats) {
	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	sortedTimes := slices.Clone(stats.ResponseTimes)
	slices.Sort(sortedTimes)

	fmt.Println("\n================= WEBHOOK BURST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Acknowledged:        %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Rejected:            %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Throughput:          %.2f req/s\n", float64(stats.TotalRequests)/stats.TotalTime.Seconds())

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", percentile(sortedTimes, 50))
	fmt.Printf("P95 Response:        %v\n", percentile(sortedTimes, 95))
	fmt.Printf("P99 Response:        %v\n", percentile(sortedTimes, 99))

	fmt.Println("\n----------------- STATUS CODES -----------------")
	for code, count := range stats.StatusCodeStats {
		fmt.Printf("%d: %d\n", code, count)
	}

	if len(stats.ErrorCounts) > 0 {
		fmt.Println("\n----------------- ERRORS -----------------")
		for msg, count := range stats.ErrorCounts {
			fmt.Printf("%s: %d\n", msg, count)
		}
	}

	fmt.Println("\nEach reference should have produced at most one notification per distinct status;")
	fmt.Println("check the service log for \"Transaction status updated\" entries per reference.")
}
