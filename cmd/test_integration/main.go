package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func baseURL() string {
	if u := os.Getenv("CONCORD_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Checking health...")
	if _, ok := sendRequest("GET", "/healthz", nil); !ok {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Detecting conflicts...")
	payload := map[string]interface{}{
		"records": []map[string]string{
			{"id": "faq-1", "type": "faq", "name": "What are your hours?", "answer": "We close at 5pm"},
			{"id": "faq-2", "type": "faq", "name": "What are your hours?", "answer": "We close at 9pm"},
			{"id": "store-1", "type": "store", "name": "Main Street Store", "content": "The store is open on Sundays"},
			{"id": "store-2", "type": "store", "name": "Main Street Store", "content": "The store is not open on Sundays"},
		},
	}
	body, ok := sendRequest("POST", "/conflicts/detect", payload)
	if !ok {
		fmt.Println("FAILED: Detect")
		os.Exit(1)
	}

	var result struct {
		Summary struct {
			TotalConflicts int `json:"totalConflicts"`
			HighSeverity   int `json:"highSeverity"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("FAILED: Decode detect response: %v\n", err)
		os.Exit(1)
	}
	if result.Summary.TotalConflicts != 2 || result.Summary.HighSeverity != 2 {
		fmt.Printf("FAILED: Expected 2 high severity conflicts, got %+v\n", result.Summary)
		os.Exit(1)
	}
	fmt.Println("PASSED: Detect")

	fmt.Println("3. Exporting conflicts...")
	if _, ok := sendRequest("POST", "/conflicts/export?format=yaml", payload); !ok {
		fmt.Println("FAILED: Export")
		os.Exit(1)
	}
	fmt.Println("PASSED: Export")
}

func sendRequest(method, endpoint string, payload interface{}) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL()+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
