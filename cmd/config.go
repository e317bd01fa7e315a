package cmd

import (
	"log"
	"os"

	"github.com/placematch/matchengine/internal/logger"
	"github.com/placematch/matchengine/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the matchengine configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file holding the built-in scoring tables",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configInit(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func configInit(cmd *cobra.Command, args []string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	path := app + ".yaml"
	if len(args) > 0 {
		path = args[0]
	}

	if cmd.Flag("force").Value.String() != "true" {
		if _, err := os.Stat(path); err == nil {
			logger.Fatal("config file already exists",
				zap.String("path", path),
				zap.String("hint", "pass --force to overwrite"),
			)
		}
	}

	config := &Config{
		Embeddings: &EmbeddingsConfig{Gemini: &GeminiConfig{}},
		Scoring:    matching.DefaultConfig(),
		Ensemble:   matching.DefaultEnsembleConfig(),
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		logger.Fatal("encoding the config", zap.Error(err))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatal("writing the config file", zap.Error(err))
	}

	logger.Info("wrote the config file", zap.String("path", path))
}
