package cmd

import (
	"errors"
	"log"

	"github.com/placematch/matchengine/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "matchengine"
)

type Config struct {
	Embeddings *EmbeddingsConfig        `mapstructure:"embeddings" yaml:"embeddings"`
	Scoring    *matching.Config         `mapstructure:"scoring" yaml:"scoring"`
	Ensemble   *matching.EnsembleConfig `mapstructure:"ensemble" yaml:"ensemble"`
	Workers    int                      `mapstructure:"workers" yaml:"workers"`
}

type EmbeddingsConfig struct {
	File           string        `mapstructure:"file" yaml:"file"`
	Provider       string        `mapstructure:"provider" yaml:"provider"`
	VocabularyFile string        `mapstructure:"vocabulary-file" yaml:"vocabulary-file"`
	Gemini         *GeminiConfig `mapstructure:"gemini" yaml:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file" yaml:"api-key-file"`
	Model      string `mapstructure:"model" yaml:"model"`
	MaxRetries int    `mapstructure:"max-retries" yaml:"max-retries"`
	BatchSize  int    `mapstructure:"batch-size" yaml:"batch-size"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "matchengine is a cli for scoring candidates against opportunities by skills, location and academics",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("embeddings.file", "MATCHENGINE_EMBEDDINGS_FILE"); err != nil {
		log.Fatalf("binding MATCHENGINE_EMBEDDINGS_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("embeddings.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchengine.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the scoring commands. If there is no config, we can skip initialization
	if scoreCmd.CalledAs() == "" && batchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Scoring works with built-in defaults, so a missing default config file
	// is fine. An explicitly requested or unparsable one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}

		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config.withDefaults(), nil
}

// withDefaults fills in every section the config file may omit.
func (c *Config) withDefaults() *Config {
	if c == nil {
		c = &Config{}
	}

	if c.Embeddings == nil {
		c.Embeddings = &EmbeddingsConfig{}
	}

	if c.Embeddings.Gemini == nil {
		c.Embeddings.Gemini = &GeminiConfig{}
	}

	if c.Scoring == nil {
		c.Scoring = matching.DefaultConfig()
	}

	if c.Ensemble == nil {
		c.Ensemble = matching.DefaultEnsembleConfig()
	}

	return c
}
