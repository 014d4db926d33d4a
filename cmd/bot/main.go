package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/logic-rules-bot/internal/config"
	"github.com/aliskhannn/logic-rules-bot/internal/delivery/telegram"
	"github.com/aliskhannn/logic-rules-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/logic-rules-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/logic-rules-bot/internal/logger"
	"github.com/aliskhannn/logic-rules-bot/internal/metrics"
	"github.com/aliskhannn/logic-rules-bot/internal/repository"
	"github.com/aliskhannn/logic-rules-bot/internal/service"
	"github.com/aliskhannn/logic-rules-bot/internal/storage"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "logic-rules-bot",
		Short: "Telegram quiz on propositional logic inference rules",
		Long: `logic-rules-bot runs a Telegram quiz that drills the rules of inference
of propositional logic and common reasoning mistakes.

Answers and finished runs are stored in PostgreSQL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			lg, err := logger.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = lg.Sync() }()

			return run(cmd.Context(), cfg, lg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "Directory with config.yaml (default ./config)")

	cmd.AddCommand(catalogCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("logic-rules-bot version %s\n", Version)
		},
	})

	return cmd
}

// catalogCmd validates a catalog file and prints its pools.
func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [path]",
		Short: "Validate a rules catalog and list its content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			repo, err := repository.NewCatalogRepository(path)
			if err != nil {
				return err
			}

			cmd.Printf("Rules (%d):\n", len(repo.Rules()))
			for _, r := range repo.Rules() {
				cmd.Printf("  %-24s %s\n", r.Name, r.Schema())
			}
			cmd.Printf("Mistakes (%d):\n", len(repo.Mistakes()))
			for _, m := range repo.Mistakes() {
				cmd.Printf("  %-24s %s\n", m.Name, m.Correction)
			}
			return nil
		},
	}
}

func run(parent context.Context, cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Telegram.Debug
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(telegram.BotCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// Initialize repositories.
	catalogRepo, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return err
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := pgrepo.NewUserRepository(pool)
	quizRepo := pgrepo.NewQuizRepository(pool)
	transactor := postgres.NewTransactor(pool)

	// Initialize services.
	sessions := storage.NewSessionStorage()
	messages := storage.NewMessageStorage()

	registry := metrics.NewRegistry()
	quizMetrics := metrics.NewQuizMetrics(registry, sessions.Len)

	quizService := service.NewQuizService(
		catalogRepo,
		sessions,
		quizRepo,
		service.QuizOptions{
			SessionLength: cfg.Quiz.SessionLength,
			AdvanceDelay:  cfg.Quiz.AdvanceDelay,
			Metrics:       quizMetrics,
		},
		lg,
	)
	statsService := service.NewStatsService(quizRepo)
	userService := service.NewUserService(userRepo)
	resetService := service.NewResetService(transactor)
	janitor := service.NewSessionJanitor(sessions, cfg.Quiz.SweepSchedule, cfg.Quiz.IdleTTL, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		cfg.Telegram.UpdateTimeout,
		quizService,
		statsService,
		userService,
		resetService,
		messages,
	)
	quizService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return janitor.Start(gctx) })
	g.Go(func() error { return handler.Run(gctx) })
	if cfg.Metrics.Addr != "" {
		server := metrics.NewServer(cfg.Metrics.Addr, registry, lg)
		g.Go(func() error { return server.Start(gctx) })
	}

	err = g.Wait()
	lg.Info("bot stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
