package textnorm

import (
	"bufio"
	"os"
	"strings"

	"graphrag-chatbot-be/internal/pkg/logger"
)

// loadStopwords reads one stopword per line, ignoring blanks and '#'
// comments. A missing file is logged and yields an empty set rather
// than failing startup.
func loadStopwords(path string, log logger.ILogger) map[string]struct{} {
	stopwords := make(map[string]struct{})
	if path == "" {
		return stopwords
	}

	file, err := os.Open(path)
	if err != nil {
		if log != nil {
			log.Warn("TEXTNORM", "Stopword file not found, continuing without stopwords", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return stopwords
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stopwords[strings.ToLower(line)] = struct{}{}
	}

	if err := scanner.Err(); err != nil && log != nil {
		log.Warn("TEXTNORM", "Stopword file read interrupted", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	if log != nil {
		log.Info("TEXTNORM", "Stopwords loaded", map[string]interface{}{
			"path":  path,
			"count": len(stopwords),
		})
	}
	return stopwords
}
