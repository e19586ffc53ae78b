package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/nlp"
	"github.com/spigell/resume-matcher/internal/server"
)

const (
	app       = "resume-matcher"
	envPrefix = "RESUME_MATCHER"
)

type Config struct {
	Matching *MatchingConfig `mapstructure:"matching"`
	NLP      *NLPConfig      `mapstructure:"nlp"`
	Server   *server.Config  `mapstructure:"server"`
}

type MatchingConfig struct {
	Top int `mapstructure:"top"`
	// MinScore is a percentage in [0,100].
	MinScore float64 `mapstructure:"min-score"`
}

type NLPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher ranks resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory, optional)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	defaults := server.DefaultConfig()
	viper.SetDefault("matching.top", 10)
	viper.SetDefault("matching.min-score", 0.0)
	viper.SetDefault("nlp.enabled", true)
	viper.SetDefault("server.addr", defaults.Addr)
	viper.SetDefault("server.upload-dir", defaults.UploadDir)
	viper.SetDefault("server.max-file-size", defaults.MaxFileSize)
	viper.SetDefault("server.max-resumes", defaults.MaxResumes)
	viper.SetDefault("server.request-timeout", defaults.RequestTimeout.String())
}

func initConfig() {
	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.NLP == nil {
		config.NLP = &NLPConfig{}
	}
	if config.Server == nil {
		defaults := server.DefaultConfig()
		config.Server = &defaults
	}

	return config, nil
}

// bootstrap builds the logger and config shared by every command.
func bootstrap() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("version", version), zap.Any("config", config))

	return l, config
}

// loadModel returns the POS tagger, or nil when it is disabled or fails to load.
func loadModel(cfg *NLPConfig, l *zap.Logger) *nlp.Model {
	if cfg == nil || !cfg.Enabled {
		l.Info("linguistic model disabled, using pattern-based extraction")
		return nil
	}

	model, err := nlp.Load()
	if err != nil {
		l.Warn("linguistic model unavailable, using pattern-based extraction", zap.Error(err))
		return nil
	}

	return model
}
