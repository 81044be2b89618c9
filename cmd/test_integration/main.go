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
	if v := os.Getenv("VERITAS_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test...")

	if _, ok := sendRequest("GET", "/healthz", nil); !ok {
		fmt.Println("FAILED: health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	fmt.Println("Verifying claims...")
	payload := map[string]interface{}{
		"claims": []map[string]string{
			{"claim_text": "RBI banned UPI payments nationwide", "risk_hint": "high"},
			{"claim_text": "An RBI circular halted UPI transactions", "risk_hint": "high"},
			{"claim_text": "The UPI ban affects millions of users", "risk_hint": "medium"},
		},
		"evidence": []map[string]string{
			{"evidence_id": "e1", "retriever": "web", "domain": "snopes.com",
				"snippet": "The RBI has not banned UPI payments; no circular halted UPI transactions."},
			{"evidence_id": "e2", "retriever": "web", "url": "https://www.reuters.com/a",
				"snippet": "RBI denies UPI ban; millions of users unaffected."},
		},
	}
	body, ok := sendRequest("POST", "/verify", payload)
	if !ok {
		fmt.Println("FAILED: verify")
		os.Exit(1)
	}
	var report struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(body, &report); err != nil || report.RunID == "" {
		fmt.Println("FAILED: verify returned no run_id")
		os.Exit(1)
	}
	fmt.Println("PASSED: verify")

	// 404 is expected when the server runs without an archive.
	sendRequest("GET", "/runs/"+report.RunID, nil)
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

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return respBody, false
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
