package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/placematch/matchengine/internal/embedding"
	"github.com/placematch/matchengine/internal/embedding/gemini"
	"github.com/placematch/matchengine/internal/logger"
	"github.com/placematch/matchengine/internal/matching"
	"github.com/placematch/matchengine/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single candidate against an opportunity",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("skills", "", "comma-separated candidate skills")
	scoreCmd.Flags().String("required-skills", "", "comma-separated skills the opportunity requires")
	scoreCmd.Flags().String("location", "", "candidate location")
	scoreCmd.Flags().String("opportunity-location", "", "opportunity location")
	scoreCmd.Flags().Float64("cgpa", 0, "candidate CGPA")
	scoreCmd.Flags().Float64("min-cgpa", 0, "minimum CGPA required by the opportunity, 0 disables the academic gate")
	scoreCmd.Flags().Float64("skill-weight", 0, "override for the skills weight")
	scoreCmd.Flags().Float64("location-weight", 0, "override for the location weight")
	scoreCmd.Flags().Float64("cgpa-weight", 0, "override for the academic weight")
	scoreCmd.Flags().Bool("ensemble", false, "combine the lexical and embedding scores")
	scoreCmd.Flags().BoolP("interactive", "i", false, "prompt for any pair value not passed as a flag")
}

// score is the main command for the cli.
func score(cmd *cobra.Command) {
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

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	req, err := requestFromFlags(cmd)
	if err != nil {
		logger.Fatal("reading the pair from flags", zap.Error(err))
	}

	if cmd.Flag("interactive").Value.String() == "true" {
		if err := fillInteractive(&req); err != nil {
			logger.Fatal("reading the pair interactively", zap.Error(err))
		}
	}

	engine, err := matching.New(config.Scoring, loadTable(ctx, config.Embeddings, logger), logger)
	if err != nil {
		logger.Fatal("building the scoring engine", zap.Error(err))
	}

	if weights, ok, err := weightsFromFlags(cmd, engine.Config().Weights); ok {
		if err != nil {
			logger.Fatal("reading weight overrides", zap.Error(err))
		}
		req.Weights = weights
	}

	var out any

	if cmd.Flag("ensemble").Value.String() == "true" {
		ensemble, err := matching.NewEnsemble(engine, config.Ensemble)
		if err != nil {
			logger.Fatal("building the ensemble", zap.Error(err))
		}

		res := ensemble.Score(req)
		logger.Info("scored the pair",
			zap.Float64("total", res.Total),
			zap.String("method", res.SelectedMethod),
			zap.Bool("accepted", ensemble.Accept(res)),
		)
		out = res
	} else {
		res := engine.Comprehensive(req)
		logger.Info("scored the pair", zap.Float64("total", res.Total))
		out = res
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("encoding the result", zap.Error(err))
	}

	fmt.Println(string(encoded))
}

func requestFromFlags(cmd *cobra.Command) (matching.PairRequest, error) {
	flags := cmd.Flags()

	var req matching.PairRequest
	var err error

	if req.CandidateSkills, err = flags.GetString("skills"); err != nil {
		return req, err
	}

	if req.RequiredSkills, err = flags.GetString("required-skills"); err != nil {
		return req, err
	}

	if req.CandidateLocation, err = flags.GetString("location"); err != nil {
		return req, err
	}

	if req.OpportunityLocation, err = flags.GetString("opportunity-location"); err != nil {
		return req, err
	}

	if req.CandidateCGPA, err = flags.GetFloat64("cgpa"); err != nil {
		return req, err
	}

	if req.MinimumCGPA, err = flags.GetFloat64("min-cgpa"); err != nil {
		return req, err
	}

	return req, nil
}

// weightsFromFlags overlays any changed weight flag on the base weights. The
// bool reports whether any flag was given at all.
func weightsFromFlags(cmd *cobra.Command, base matching.Weights) (matching.Weights, bool, error) {
	flags := cmd.Flags()

	changed := false
	for name, target := range map[string]*float64{
		"skill-weight":    &base.Skills,
		"location-weight": &base.Location,
		"cgpa-weight":     &base.CGPA,
	} {
		if !flags.Changed(name) {
			continue
		}

		value, err := flags.GetFloat64(name)
		if err != nil {
			return base, true, err
		}

		*target = value
		changed = true
	}

	return base, changed, nil
}

func fillInteractive(req *matching.PairRequest) error {
	for _, field := range []struct {
		label string
		value *string
	}{
		{"Candidate skills (comma-separated)", &req.CandidateSkills},
		{"Required skills (comma-separated)", &req.RequiredSkills},
		{"Candidate location", &req.CandidateLocation},
		{"Opportunity location", &req.OpportunityLocation},
	} {
		if strings.TrimSpace(*field.value) != "" {
			continue
		}

		prompt := promptui.Prompt{Label: field.label}

		entered, err := prompt.Run()
		if err != nil {
			return err
		}

		*field.value = strings.TrimSpace(entered)
	}

	if req.CandidateCGPA == 0 {
		value, err := promptFloat("Candidate CGPA")
		if err != nil {
			return err
		}
		req.CandidateCGPA = value
	}

	if req.MinimumCGPA == 0 {
		value, err := promptFloat("Minimum CGPA (empty to skip)")
		if err != nil {
			return err
		}
		req.MinimumCGPA = value
	}

	return nil
}

func promptFloat(label string) (float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return nil
			}

			_, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			return err
		},
	}

	entered, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	entered = strings.TrimSpace(entered)
	if entered == "" {
		return 0, nil
	}

	return strconv.ParseFloat(entered, 64)
}

// loadTable builds the embedding table from whatever source is configured.
// Scoring degrades to the lexical tiers when no table can be built, so every
// failure here is a warning, not an error.
func loadTable(ctx context.Context, cfg *EmbeddingsConfig, log *zap.Logger) *embedding.Table {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch {
	case cfg.File != "":
		table, err := embedding.Load(cfg.File, log)
		if err != nil {
			log.Warn("scoring without embeddings", zap.Error(err))
			return nil
		}

		return table
	case provider == "gemini":
		table, err := hydrateTable(ctx, cfg, log)
		if err != nil {
			log.Warn("scoring without embeddings", zap.Error(err))
			return nil
		}

		return table
	case provider != "":
		log.Warn("scoring without embeddings", zap.String("reason", "unsupported provider: "+cfg.Provider))
		return nil
	default:
		log.Debug("no embedding source configured")
		return nil
	}
}

// hydrateTable embeds the vocabulary file through the Gemini API.
func hydrateTable(ctx context.Context, cfg *EmbeddingsConfig, log *zap.Logger) (*embedding.Table, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embeddings.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	vocabulary, err := readVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, err
	}

	client, err := gemini.NewClient(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	embedder := gemini.NewEmbedder(
		client,
		cfg.Gemini.BatchSize,
		cfg.Gemini.MaxRetries,
		logger.WithProvider(log, "gemini", client.Model()),
	)

	return embedder.Hydrate(ctx, vocabulary)
}

func readVocabulary(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("embeddings.vocabulary-file is required for the gemini provider")
	}

	return embedding.ReadVocabulary(path)
}
