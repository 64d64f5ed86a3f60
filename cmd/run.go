package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/ai/gemini"
	"github.com/tttiuem2k3/Agent-Interview/internal/console"
	"github.com/tttiuem2k3/Agent-Interview/internal/contact"
	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
	"github.com/tttiuem2k3/Agent-Interview/internal/logger"
	"github.com/tttiuem2k3/Agent-Interview/internal/notify"
	"github.com/tttiuem2k3/Agent-Interview/internal/resolve"
	"github.com/tttiuem2k3/Agent-Interview/internal/reviewer"
	"github.com/tttiuem2k3/Agent-Interview/internal/schedule"
	"github.com/tttiuem2k3/Agent-Interview/internal/scoring"
	"github.com/tttiuem2k3/Agent-Interview/internal/secrets"
	"github.com/tttiuem2k3/Agent-Interview/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("migrate", false, "create the database schema before starting")
	viper.BindPFlag("migrate", runCmd.Flags().Lookup("migrate"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the agent-interview", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}
	if config.DB == nil {
		logger.Fatal("database configuration is required under the db key")
	}

	completer, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the model client",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
	}

	// Every model consumer shares the same paced completer.
	completer = ai.Throttled(completer, throttleDelay(config.Interview))

	db, err := store.Open(ctx, *config.DB, logger)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer db.Close()

	if viper.GetBool("migrate") {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("migrating the schema", zap.Error(err))
		}
	}

	orch, err := interview.New(interviewConfig(config.Interview), interview.Deps{
		LLM:       completer,
		Store:     db,
		Contacts:  contact.NewExtractor(completer, logger),
		Resolver:  resolve.NewResolver(completer, logger),
		Scorer:    scoring.NewEngine(completer, logger),
		Reviewers: reviewer.NewMatcher(db, logger),
		Scheduler: schedule.NewService(db),
		Notifier:  notify.NewConsoleSender(nil, logger),
		Console:   console.New(),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("building the interview orchestrator", zap.Error(err))
	}

	if err := orch.Run(ctx); err != nil {
		logger.Fatal("interview session aborted", zap.Error(err))
	}

	logger.Info("interview session finished")
}

func interviewConfig(cfg *InterviewConfig) interview.Config {
	if cfg == nil {
		return interview.Config{}
	}
	return interview.Config{
		PassThreshold:     cfg.PassThreshold,
		MaxQuestions:      cfg.MaxQuestions,
		ContactRetryLimit: cfg.ContactRetryLimit,
		SelectionAttempts: cfg.SelectionAttempts,
	}
}

const defaultThrottleDelay = 500 * time.Millisecond

func throttleDelay(cfg *InterviewConfig) time.Duration {
	if cfg == nil || cfg.ThrottleDelayMS <= 0 {
		return defaultThrottleDelay
	}
	return time.Duration(cfg.ThrottleDelayMS) * time.Millisecond
}

func newCompleter(ctx context.Context, cfg *AIConfig, zl *zap.Logger) (ai.Completer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required under the ai key")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(zl, "gemini", cfg.Gemini.Model)

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}
