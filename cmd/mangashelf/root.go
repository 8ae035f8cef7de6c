package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kerbaras/mangashelf/pkg/app"
	"github.com/kerbaras/mangashelf/pkg/config"
	"github.com/kerbaras/mangashelf/pkg/i18n"
	"github.com/kerbaras/mangashelf/pkg/logging"
	"github.com/kerbaras/mangashelf/pkg/services"
)

var (
	sourceFlag string
	localeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mangashelf",
	Short: "A manga bookshelf and reader for the terminal",
	Long:  "Download, read and export your manga collection with a TUI and CLI",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		return app.NewApp(cmd.Context(), env.controller, env.logger).Run()
	},
	SilenceUsage: true,
}

// environment is what every command that touches the library needs.
type environment struct {
	cfg        *config.Config
	logger     *zap.Logger
	controller *services.MangaController
}

func setup(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogPath(), cfg.Debug)
	if err != nil {
		return nil, err
	}

	locale := cfg.Locale
	if localeFlag != "" {
		locale = localeFlag
	}
	backend := i18n.Backend(i18n.EmbeddedBackend())
	if cfg.ServerURL != "" {
		backend = i18n.ChainBackend{i18n.EmbeddedBackend(), i18n.NewHTTPBackend(cfg.ServerURL)}
	}
	bundle := i18n.New(backend, logger, cfg.TranslationDebug())
	if err := bundle.Init(ctx, locale); err != nil {
		logger.Warn("failed to load translations", zap.Error(err))
	}
	if want := i18n.Match(locale); locale != "" && want != bundle.Language() {
		fmt.Fprintf(os.Stderr, "Language %q is not available (bundled: %s); using %q.\n",
			want, strings.Join(i18n.EmbeddedLanguages(), ", "), bundle.Language())
	}
	i18n.SetDefault(bundle)

	readerDefaults, err := cfg.ReaderSettings()
	if err != nil {
		return nil, err
	}

	controller, err := services.NewMangaController(services.ControllerConfig{
		SourceType:   sourceFlag,
		DownloadDir:  cfg.DownloadDir,
		DatabasePath: cfg.DatabasePath(),
		ServerURL:    cfg.ServerURL,
		Reader:       readerDefaults,
		Locale:       bundle.Tag(),
		Logger:       logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	logger.Debug("environment ready",
		zap.String("root", cfg.RootDir),
		zap.String("source", controller.Source().Info().ID),
		zap.String("language", bundle.Language()),
	)
	return &environment{cfg: cfg, logger: logger, controller: controller}, nil
}

func (e *environment) Close() {
	if err := e.controller.Close(); err != nil {
		e.logger.Warn("failed to close controller", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", "", "Manga source (default mangadex)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "",
		"Interface language; bundled: "+strings.Join(i18n.EmbeddedLanguages(), ", ")+", others need a server URL")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
