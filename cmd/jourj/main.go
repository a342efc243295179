package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malotru/jourj/internal/config"
)

var (
	flagDataDir string
	flagDebug   bool
	flagJSON    bool
	flagQuiet   bool
	flagLang    string

	flagMode    string
	flagVCF     string
	flagWebURL  string
	flagWebUser string

	app       *App
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "jourj",
	Short: "jourj - birthday tracking for your address book",
	Long:  "JourJ syncs birthdays out of a vCard address book, filters them by label, and surfaces them as a list, reminders, and a calendar feed.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file next to the binary can supply defaults; missing is fine.
		_ = godotenv.Load(config.EnvFileName)

		logCloser = setupLogging(flagDebug || os.Getenv(config.EnvDebug) != "")

		switch cmd.Name() {
		case "help", "version", "set-password":
			return nil
		}

		var err error
		app, err = NewApp(AppOptions{
			DataDir: dataDir(),
			Lang:    flagLang,
			Mode:    flagMode,
			VCFPath: flagVCF,
			WebURL:  flagWebURL,
			WebUser: flagWebUser,
			Port:    os.Getenv(config.EnvPort),
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s (%s/%s)\n", config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
	},
}

// dataDir resolves the application data directory: flag, then environment,
// then the platform user config dir.
func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	if env := os.Getenv(config.EnvDataDir); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err != nil {
		slog.Warn(config.ErrDataDir,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.AppID
	}
	return filepath.Join(base, config.AppID)
}

// setupLogging configures the default slog logger: JSON to stderr, plus a
// log file in the data directory when writable.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	dir := dataDir()
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err == nil {
		logPath := filepath.Join(dir, config.LogFileName)
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	if flagQuiet {
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default: platform user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&flagLang, "lang", "", "Interface language (default: en)")

	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", config.SourceModeLocal, "Address book source: local or web")
	rootCmd.PersistentFlags().StringVar(&flagVCF, "vcf", "", "Path to the local .vcf address book")
	rootCmd.PersistentFlags().StringVar(&flagWebURL, "url", "", "CardDAV/WebDAV address book URL")
	rootCmd.PersistentFlags().StringVar(&flagWebUser, "user", "", "Username for the web address book")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(config.ExitCodeError)
	}
}
