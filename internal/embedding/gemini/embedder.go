package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/placematch/matchengine/internal/embedding"
	"github.com/placematch/matchengine/internal/util"

	"go.uber.org/zap"
)

type vectorizer interface {
	EmbedTokens(ctx context.Context, tokens []string) ([][]float32, error)
}

const (
	defaultBatchSize = 100
	retryBackoff     = 2 * time.Second
)

// Embedder hydrates an embedding table from the Gemini embedding API. The
// API is called only here, once per batch at startup; scoring itself never
// performs I/O.
type Embedder struct {
	vec        vectorizer
	batchSize  int
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func NewEmbedder(vec vectorizer, batchSize, maxRetries int, logger *zap.Logger) *Embedder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Embedder{
		vec:        vec,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		backoff:    retryBackoff,
		logger:     logger,
	}
}

// Hydrate embeds the given vocabulary and builds a table from the results.
// Tokens are trimmed, lower-cased and de-duplicated first. Tokens the API
// returns no vector for are skipped with a warning.
func (e *Embedder) Hydrate(ctx context.Context, tokens []string) (*embedding.Table, error) {
	vocab := dedupe(tokens)
	if len(vocab) == 0 {
		return nil, errors.New("vocabulary must not be empty")
	}

	vectors := make(map[string][]float32, len(vocab))

	for start := 0; start < len(vocab); start += e.batchSize {
		end := start + e.batchSize
		if end > len(vocab) {
			end = len(vocab)
		}

		batch := vocab[start:end]

		got, err := e.embedWithRetry(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embedding vocabulary batch starting at %d: %w", start, err)
		}

		for i, vec := range got {
			if len(vec) == 0 {
				e.logger.Warn("no vector returned for token", zap.String("token", batch[i]))
				continue
			}
			vectors[batch[i]] = vec
		}
	}

	if len(vectors) == 0 {
		return nil, errors.New("gemini api returned no vectors")
	}

	e.logger.Info("hydrated embedding table",
		zap.Int("requested_tokens", len(vocab)),
		zap.Int("stored_tokens", len(vectors)),
	)

	return embedding.NewTable(vectors), nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			e.logger.Debug("retrying embedding batch",
				zap.Int("attempt", attempt),
				zap.String("batch_preview", util.TruncateForLog(strings.Join(batch, " "), 80)),
			)

			if err := util.WaitFor(ctx, e.backoff); err != nil {
				return nil, err
			}
		}

		got, err := e.vec.EmbedTokens(ctx, batch)
		if err == nil {
			if len(got) != len(batch) {
				return nil, fmt.Errorf("expected %d vectors, got %d", len(batch), len(got))
			}
			return got, nil
		}

		lastErr = err
	}

	return nil, lastErr
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))

	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}

		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	return out
}
