package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout, answer generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func generate(prompt string) {
	resp, body, err := sendRequest("POST", "/generate", map[string]interface{}{
		"userPrompt":          prompt,
		"conversationHistory": []interface{}{},
		"sessionId":           "smoke-test",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	prettyPrint(parsed)
}

func main() {
	color.Cyan("🚀 Starting Chatbot API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/health/detailed", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var health map[string]interface{}
	json.Unmarshal(body, &health)
	prettyPrint(health)

	// 2. Sensitive query: canned response, no provider call
	color.Yellow("\n2. Sensitive Query (specific price)")
	generate("프리미엄 플랜이 정확히 얼마예요?")

	// 3. General plan query: retrieval-first path
	color.Yellow("\n3. General Plan Query (retrieval-first)")
	generate("요금제별 기능을 비교해주세요")

	// 4. Default path: fact store + retrieval synthesis
	color.Yellow("\n4. General Query (fact-grounded synthesis)")
	generate("설문 결과는 어디에서 확인하나요?")

	// 5. Conversation history for the smoke session
	color.Yellow("\n5. Conversation History")
	resp, body, err = sendRequest("GET", "/conversation-history/smoke-test", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var history map[string]interface{}
	json.Unmarshal(body, &history)
	prettyPrint(history)

	color.Cyan("\n✅ Smoke test finished")
}
