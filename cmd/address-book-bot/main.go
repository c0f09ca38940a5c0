package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/username/address-book-bot/internal/assistant"
	"github.com/username/address-book-bot/internal/config"
	"github.com/username/address-book-bot/internal/daemon"
	"github.com/username/address-book-bot/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	bookFile   string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "address-book-bot",
		Short:         "Personal address book assistant",
		Long:          "Keep contacts with phones and birthdays, and find out whose birthday is coming up",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ExpandEnvVars()
			if bookFile != "" {
				cfg.Storage.File = bookFile
			}

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				logger = initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml in . or $HOME/.address-book-bot)")
	rootCmd.PersistentFlags().StringVarP(&bookFile, "file", "f", "", "Address book file (overrides storage.file)")

	rootCmd.AddCommand(
		bookCmd("add <name> [phone]", "Add a contact or append a phone to an existing one", cobra.RangeArgs(1, 2), true,
			func(a *assistant.Assistant, args []string) (string, error) { return a.AddContact(args) }),
		bookCmd("change <name> <old phone> <new phone>", "Replace a contact's phone", cobra.ExactArgs(3), true,
			func(a *assistant.Assistant, args []string) (string, error) { return a.ChangeContact(args) }),
		bookCmd("remove-phone <name> <phone>", "Remove a phone from a contact", cobra.ExactArgs(2), true,
			func(a *assistant.Assistant, args []string) (string, error) { return a.RemovePhone(args) }),
		bookCmd("phone <name>", "Show a contact's phones", cobra.ExactArgs(1), false,
			func(a *assistant.Assistant, args []string) (string, error) { return a.ShowPhone(args) }),
		bookCmd("delete <name>", "Delete a contact", cobra.ExactArgs(1), true,
			func(a *assistant.Assistant, args []string) (string, error) { return a.DeleteContact(args) }),
		bookCmd("all", "Show all contacts", cobra.NoArgs, false,
			func(a *assistant.Assistant, args []string) (string, error) { return a.ShowAll(), nil }),
		bookCmd("add-birthday <name> <DD.MM.YYYY>", "Set a contact's birthday", cobra.ExactArgs(2), true,
			func(a *assistant.Assistant, args []string) (string, error) { return a.AddBirthday(args) }),
		bookCmd("show-birthday <name>", "Show a contact's birthday", cobra.ExactArgs(1), false,
			func(a *assistant.Assistant, args []string) (string, error) { return a.ShowBirthday(args) }),
		birthdaysCmd(),
		shellCmd(),
		daemonCmd(),
	)

	return rootCmd
}

// bookCmd builds a subcommand that runs one assistant action against the stored book
func bookCmd(use, short string, args cobra.PositionalArgs, mutates bool,
	action func(a *assistant.Assistant, args []string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()
			book, err := store.Load()
			if err != nil {
				return err
			}

			a := assistant.New(book, cfg.Birthdays.WindowDays, logger)
			reply, err := action(a, args)
			if err != nil {
				return err
			}
			if reply == assistant.MsgNotFound {
				return errors.New(reply)
			}

			if mutates {
				if err := store.Save(book); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func birthdaysCmd() *cobra.Command {
	var days int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "birthdays",
		Short: "List upcoming birthdays (weekend dates move to Monday)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = cfg.Birthdays.WindowDays
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}

			book, err := newStore().Load()
			if err != nil {
				return err
			}

			upcoming := book.UpcomingBirthdays(days)
			logger.Debug("Upcoming birthdays computed",
				zap.Int("window_days", days),
				zap.Int("count", len(upcoming)))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(upcoming)
			}

			fmt.Fprintln(cmd.OutOrStdout(), assistant.FormatCongratulations(upcoming))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Days to look ahead (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive assistant; the book is saved on exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()
			book, err := store.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := assistant.New(book, cfg.Birthdays.WindowDays, logger)
			runErr := a.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())

			if err := store.Save(book); err != nil {
				return err
			}
			return runErr
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Report upcoming birthdays every day at reminder.daily_time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hour, minute := cfg.Reminder.GetDailyTime()
			d := daemon.NewScheduledDaemon(
				newStore(),
				cfg.Birthdays.WindowDays,
				hour,
				minute,
				cfg.Reminder.SystemTray,
				logger,
			)
			return d.Start()
		},
	}
}

func newStore() *storage.Store {
	return storage.New(cfg.Storage.File, cfg.Storage.GetFormat(), logger)
}

func initLogger(level string) *zap.Logger {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := zapConfig.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.WarnLevel
	}
	return zapLevel
}
