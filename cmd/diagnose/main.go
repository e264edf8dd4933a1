package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/pkg/rag/classifier"
	"graphrag-chatbot-be/pkg/textnorm"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Offline routing diagnostic: shows how a query is normalized and which
// pipeline path the classifier picks, without calling any provider.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Info: No .env file found, using system env")
	}

	stopwordsPath := os.Getenv("STOPWORDS_PATH")
	if stopwordsPath == "" {
		stopwordsPath = "configs/stopwords.txt"
	}
	normalizer := textnorm.New(stopwordsPath, logger.Nop())

	queries := os.Args[1:]
	if len(queries) == 0 {
		color.Cyan("🔍 Query Routing Diagnostic (empty line to quit)")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				break
			}
			diagnose(normalizer, query)
		}
		return
	}

	for _, query := range queries {
		diagnose(normalizer, query)
	}
}

func diagnose(normalizer *textnorm.Normalizer, query string) {
	color.Yellow("\nQuery: %s", query)

	result := classifier.Classify(query)
	normalized := normalizer.NormalizeForSearch(query)
	terms := normalizer.SearchTerms(query)

	fmt.Printf("  normalized:  %s\n", normalized)
	fmt.Printf("  search terms: %s\n", strings.Join(terms, ", "))
	fmt.Printf("  query_type:  %s (confidence %.2f)\n", result.QueryType, result.Confidence)
	if len(result.Categories) > 0 {
		fmt.Printf("  categories:  %s\n", strings.Join(result.Categories, ", "))
	}
	if len(result.MatchedKeywords) > 0 {
		fmt.Printf("  keywords:    %s\n", strings.Join(result.MatchedKeywords, ", "))
	}

	switch {
	case result.IsSensitive && !result.ShouldTryRag:
		color.Red("  route: ESCALATE (canned response, no provider call)")
	case result.ShouldTryRag:
		color.Green("  route: RETRIEVAL-FIRST")
	default:
		color.Green("  route: FACT + RETRIEVAL SYNTHESIS")
	}
}
