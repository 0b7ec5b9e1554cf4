package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkazlouski/adwatch/internal/config"
	"github.com/mkazlouski/adwatch/internal/fetch"
	"github.com/mkazlouski/adwatch/internal/logging"
	"github.com/mkazlouski/adwatch/internal/notify"
	"github.com/mkazlouski/adwatch/internal/store"
	"github.com/mkazlouski/adwatch/internal/watcher"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the adwatch poller in continuous mode",
	Long: `Starts the adwatch watcher which polls every tracked search page on
the configured interval, records newly discovered listings, and sends a
Telegram notification for each one. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		runWatcher(cfgFile)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWatcher(configPath string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		// Use standard log here since logger isn't initialized yet
		log.Fatalf("Error loading configuration: %v", err)
	}
	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		log.Fatalf("telegram_token and telegram_chat_id must be configured to run the watcher")
	}

	logging.InitializeLogger(cfg)
	logger := logging.Get()

	logger.Info("Configuration loaded", "poll_interval", cfg.PollInterval, "store_driver", cfg.StoreDriver)

	adStore, err := store.NewSQLStore(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		logger.Error("Error initializing store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	fetcher := fetch.NewHTTPFetcher(cfg.FetchTimeout)
	notifier := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.NotifyTimeout)

	adWatcher := watcher.NewWatcher(*cfg, adStore, fetcher, notifier, logger)
	logger.Info("Watcher initialized. Starting main loop...")

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go adWatcher.Run()

	sig := <-signalChan
	logger.Warn("Received signal, initiating shutdown...", "signal", sig)

	adWatcher.Shutdown()

	logger.Info("Adwatch shut down gracefully.")
}
