package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func baseURL() string {
	if u := os.Getenv("TRACKER_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Dashboard in both currencies
	checkEndpoint("GET", "/", nil, 200)
	checkEndpoint("GET", "/?currency=INR", nil, 200)

	// 3. Portfolio JSON
	checkEndpoint("GET", "/api/portfolio", nil, 200)

	// 4. Ignored submission
	checkEndpoint("POST", "/api/holdings", map[string]interface{}{"symbol": "", "amount": 1}, 200)

	// 5. Add a holding and check it shows up
	symbol := "e2ecoin"
	checkEndpoint("POST", "/api/holdings", map[string]interface{}{
		"symbol":      symbol,
		"amount":      1.5,
		"buy_price":   10,
		"alert_above": 0,
	}, 201)
	verifyHolding(symbol)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) []byte {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL()+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	if len(respBody) > 200 {
		fmt.Printf("Response: %s...\n", string(respBody[:200]))
	} else {
		fmt.Printf("Response: %s\n", string(respBody))
	}
	return respBody
}

func verifyHolding(symbol string) {
	fmt.Printf("Verifying %s is in the portfolio...\n", symbol)
	body := checkEndpoint("GET", "/api/portfolio", nil, 200)
	var res struct {
		Valuation struct {
			Rows []struct {
				Symbol string `json:"symbol"`
			} `json:"rows"`
		} `json:"valuation"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Fatalf("decode portfolio: %v", err)
	}
	for _, r := range res.Valuation.Rows {
		if r.Symbol == symbol {
			return
		}
	}
	log.Fatalf("holding %s not found after add", symbol)
}
