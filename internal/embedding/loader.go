package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrNoVectors is returned by Load when the file exists but yields no
// usable vectors at all.
var ErrNoVectors = errors.New("no usable vectors in file")

// Load reads a GloVe-style vectors file: one token per line followed by its
// whitespace-separated float components. The first line that parses fixes
// the dimension; later lines with a different field count or unparsable
// components are skipped with a warning, never fatally. A missing or
// unreadable file is an error, and so is a file with zero usable lines.
func Load(path string, log *zap.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vectors file: %w", err)
	}
	defer f.Close()

	t := &Table{vectors: make(map[string][]float32)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lineNo, skipped int
	for scanner.Scan() {
		lineNo++

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if len(fields) < 2 {
			skipped++
			log.Warn("skipping vector line without components", zap.Int("line", lineNo))

			continue
		}

		token := strings.ToLower(fields[0])
		comps := fields[1:]

		if t.dim != 0 && len(comps) != t.dim {
			skipped++
			log.Warn("skipping vector with unexpected dimension",
				zap.Int("line", lineNo),
				zap.Int("got", len(comps)),
				zap.Int("want", t.dim),
			)

			continue
		}

		vec, err := parseComponents(comps)
		if err != nil {
			skipped++
			log.Warn("skipping unparsable vector", zap.Int("line", lineNo), zap.String("token", token))

			continue
		}

		if t.dim == 0 {
			t.dim = len(vec)
		}

		t.vectors[token] = vec
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vectors file: %w", err)
	}

	if len(t.vectors) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoVectors)
	}

	log.Info("loaded embedding vectors",
		zap.String("file", path),
		zap.Int("tokens", len(t.vectors)),
		zap.Int("dimension", t.dim),
		zap.Int("skipped_lines", skipped),
	)

	return t, nil
}

func parseComponents(comps []string) ([]float32, error) {
	vec := make([]float32, len(comps))

	for i, c := range comps {
		v, err := strconv.ParseFloat(c, 32)
		if err != nil {
			return nil, err
		}

		vec[i] = float32(v)
	}

	return vec, nil
}
