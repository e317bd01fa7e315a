package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/placematch/matchengine/internal/logger"
	"github.com/placematch/matchengine/internal/matching"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every candidate/opportunity pair from a JSON file",
	Run: func(cmd *cobra.Command, _ []string) {
		batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("pairs", "p", "", "JSON file with an array of pair requests")
	batchCmd.MarkFlagRequired("pairs")
	batchCmd.Flags().Int("workers", 0, "pairs scored in parallel. Default is the CPU count.")
	batchCmd.Flags().Bool("ensemble", false, "combine the lexical and embedding scores")

	viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))
}

func batch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the matchengine", zap.String("version", version))

	reqs, err := readPairs(cmd.Flag("pairs").Value.String())
	if err != nil {
		logger.Fatal("reading the pairs file", zap.Error(err))
	}

	logger.Info("read pairs", zap.Int("count", len(reqs)))

	engine, err := matching.New(config.Scoring, loadTable(ctx, config.Embeddings, logger), logger)
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	pool, err := matching.NewBatch(viper.GetInt("workers"), logger)
	if err != nil {
		logger.Fatal("building the worker pool", zap.Error(err))
	}
	defer pool.Release()

	var out any

	if cmd.Flag("ensemble").Value.String() == "true" {
		ensemble, err := matching.NewEnsemble(engine, config.Ensemble)
		if err != nil {
			logger.Fatal("building the ensemble", zap.Error(err))
		}

		results, err := matching.ScoreAll(pool, reqs, ensemble.Score)
		if err != nil {
			logger.Fatal("scoring pairs", zap.Error(err))
		}

		accepted := 0
		for _, res := range results {
			if ensemble.Accept(res) {
				accepted++
			}
		}

		logger.Info("scored pairs", zap.Int("count", len(results)), zap.Int("accepted", accepted))
		out = results
	} else {
		results, err := matching.ScoreAll(pool, reqs, engine.Comprehensive)
		if err != nil {
			logger.Fatal("scoring pairs", zap.Error(err))
		}

		logger.Info("scored pairs", zap.Int("count", len(results)))
		out = results
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding results", zap.Error(err))
	}

	fmt.Println(string(encoded))
}

// readPairs decodes the pairs file through the json field names, so the file
// format matches the score output format.
func readPairs(path string) ([]matching.PairRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var reqs []matching.PairRequest

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &reqs,
		TagName:  "json",
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return reqs, nil
}
