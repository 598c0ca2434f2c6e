package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/txcv/internal"
	"codeberg.org/snonux/txcv/internal/processor"
	"codeberg.org/snonux/txcv/internal/ratelimit"
	"codeberg.org/snonux/txcv/internal/translation"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txcv [words...]",
		Short: "Chinese/English word translator",
		Long: `txcv translates words between Chinese and English (and more) using
Tencent Cloud Machine Translation, OpenAI or Gemini.

The source language is detected automatically: Chinese is translated to
English, English and Japanese to Chinese, anything else to English.

Examples:
  txcv                       # Interactive prompt, empty line quits
  txcv hello world           # Translate a batch of words
  echo 你好 | txcv            # Translate stdin as one text
  txcv --batch words.txt     # Translate words from file (one per line)
  txcv -t japanese cat       # Force the target language`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.txcv.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Local flags
	cmd.Flags().BoolVarP(&flags.Clear, "clear", "c", false, "Delete the stored credentials and exit")
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "Source language: chinese, english, japanese or a language code (default: detect)")
	cmd.Flags().StringVarP(&flags.Target, "target", "t", "", "Target language: chinese, english, japanese or a language code (default: by source)")
	cmd.Flags().StringVar(&flags.Color, "color", flags.Color, "Color output: always, auto or disable")
	cmd.Flags().BoolVar(&flags.Concise, "concise", false, "Print only the translation")
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: tencent, openai or gemini")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate words from file (one per line)")
	cmd.Flags().IntVar(&flags.History, "history", 0, "Print the N most recent translations and exit")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record translations of this run")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models for the current API key")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translate.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("translate.source", cmd.Flags().Lookup("source"))
	viper.BindPFlag("translate.target", cmd.Flags().Lookup("target"))
	viper.BindPFlag("output.color", cmd.Flags().Lookup("color"))
	viper.BindPFlag("output.concise", cmd.Flags().Lookup("concise"))
}

// SetDefaults registers the default value of every config key
func SetDefaults() {
	viper.SetDefault("translate.provider", translation.ProviderTencent)
	viper.SetDefault("translate.timeout", 30*time.Second)
	viper.SetDefault("output.color", "auto")
	viper.SetDefault("ratelimit.capacity", 4)
	viper.SetDefault("ratelimit.tokens", 4)
	viper.SetDefault("ratelimit.refill_amount", 4)
	viper.SetDefault("ratelimit.refill_interval", time.Second)
	viper.SetDefault("retry.max_attempts", 0)
	viper.SetDefault("breaker.enabled", true)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	SetDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".txcv" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".txcv")
	}

	// Environment variables, e.g. TXCV_TRANSLATE_PROVIDER
	viper.SetEnvPrefix("TXCV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", slog.String("path", viper.ConfigFileUsed()))
	}
}

// InitLogger installs a text slog handler on stderr at the given level
func InitLogger(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}

// ProviderConfig builds the translation provider configuration
func ProviderConfig() *translation.Config {
	config := translation.DefaultProviderConfig()
	config.Provider = strings.ToLower(viper.GetString("translate.provider"))
	config.Timeout = viper.GetDuration("translate.timeout")
	config.Breaker = viper.GetBool("breaker.enabled")
	config.OpenAIKey = GetOpenAIKey()
	config.GeminiKey = GetGeminiKey()

	if model := viper.GetString("openai.model"); model != "" {
		config.OpenAIModel = model
	}
	if model := viper.GetString("gemini.model"); model != "" {
		config.GeminiModel = model
	}

	return config
}

// RateLimitConfig builds the token bucket configuration used for batches
func RateLimitConfig() ratelimit.Config {
	return ratelimit.Config{
		Capacity:       viper.GetInt64("ratelimit.capacity"),
		Tokens:         viper.GetInt64("ratelimit.tokens"),
		RefillAmount:   viper.GetInt64("ratelimit.refill_amount"),
		RefillInterval: viper.GetDuration("ratelimit.refill_interval"),
	}
}

// ProcessorOptions builds the processor options, validating the language overrides
func ProcessorOptions() (processor.Options, error) {
	source, err := translation.ParseLanguage(viper.GetString("translate.source"))
	if err != nil {
		return processor.Options{}, fmt.Errorf("invalid source language: %w", err)
	}
	target, err := translation.ParseLanguage(viper.GetString("translate.target"))
	if err != nil {
		return processor.Options{}, fmt.Errorf("invalid target language: %w", err)
	}

	return processor.Options{
		Source:      source,
		Target:      target,
		MaxAttempts: viper.GetInt("retry.max_attempts"),
		RateLimit:   RateLimitConfig(),
	}, nil
}
