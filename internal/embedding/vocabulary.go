package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadVocabulary reads tokens to embed, one per line. Blank lines and lines
// starting with '#' are skipped.
func ReadVocabulary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary file: %w", err)
	}
	defer f.Close()

	var tokens []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens = append(tokens, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vocabulary file %s: %w", path, err)
	}

	return tokens, nil
}
