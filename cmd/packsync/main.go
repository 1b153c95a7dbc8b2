package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"packsync/internal/backup"
	"packsync/internal/config"
	"packsync/internal/deps"
	"packsync/internal/gitcmd"
	"packsync/internal/profile"
	"packsync/internal/sync"
)

var (
	// Set by goreleaser
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	noInput   bool

	// Sync command flags
	untrackedFlag string
	backupFlag    bool
	assumeYes     bool
)

// errConfig tags configuration failures for exit-code mapping
var errConfig = errors.New("configuration error")

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Printfln("packsync failed: %v", err)
		pause()
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "packsync",
	Short: "Keep a local modpack profile in sync with its distribution repository",
	Long: `packsync pulls the latest mod configuration (mods, configs, resource packs)
for a Minecraft modpack profile from a Git repository, without the user
needing to understand Git.

The remote always wins: tracked files are hard-reset to the remote branch tip
and large files are fetched through git-lfs. Untracked files are preserved or
purged depending on the configured policy, and a zip backup of the profile
can be taken before anything destructive happens.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the selected profile with the distribution repository",
	Long: `Sync bootstraps the profile's repository if needed, fetches the remote
branch, shows which files would be added, modified or deleted, and applies
the update after confirmation.`,
	RunE: runSync,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what a sync would change without applying anything",
	RunE:  runStatus,
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the selected profile to a timestamped zip",
	RunE:  runBackup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("packsync %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/packsync/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "never prompt; confirmation is declined unless --yes is given")

	// Sync command flags
	syncCmd.Flags().StringVar(&untrackedFlag, "untracked", "", "untracked file policy (preserve, purge); overrides config")
	syncCmd.Flags().BoolVar(&backupFlag, "backup", false, "offer a backup before applying; overrides config")
	syncCmd.Flags().BoolVar(&assumeYes, "yes", false, "apply without asking for confirmation")

	// Add commands
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(versionCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	return runEngine(cmd, false)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return runEngine(cmd, true)
}

func runEngine(cmd *cobra.Command, dryRun bool) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	ensurer := deps.NewEnsurer(deps.NewWingetClient(), logger)
	tools := []deps.Tool{
		{Name: "git", Package: cfg.Packages.Git},
		{Name: "git-lfs", Package: cfg.Packages.GitLfs},
	}
	if err := ensurer.Ensure(ctx, tools); err != nil {
		return err
	}

	prof, err := chooseProfile(cfg)
	if err != nil {
		return err
	}

	gitClient := gitcmd.NewShellClient(prof.Path, time.Duration(cfg.Sync.CommandTimeout))
	exporter := &backup.Exporter{Logger: logger}

	engine := sync.NewEngine(cfg, gitClient, exporter, os.Stdin, os.Stdout, logger, sync.Options{
		Policy:    cfg.Sync.Untracked,
		Backup:    cfg.Sync.Backup,
		AssumeYes: assumeYes,
		NoInput:   noInput,
		DryRun:    dryRun,
	})

	if err := engine.Run(ctx, prof); err != nil {
		logger.Error("sync failed", "error", err)
		return err
	}
	return nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	_, cancel := setupSignalHandler()
	defer cancel()

	logger := setupLogger()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	prof, err := chooseProfile(cfg)
	if err != nil {
		return err
	}

	exporter := &backup.Exporter{Logger: logger}
	archive, err := exporter.Export(prof.Path, time.Now())
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Backup written to %s", archive)
	return nil
}

// applyFlagOverrides lets per-run flags win over the config file
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("untracked") {
		cfg.Sync.Untracked = config.UntrackedPolicy(untrackedFlag)
	}
	if cmd.Flags().Changed("backup") {
		cfg.Sync.Backup = backupFlag
	}
}

// chooseProfile discovers profiles under the configured root and obtains the
// user's selection. With --no-input the choice must be unambiguous, since no
// menu may be shown.
func chooseProfile(cfg *config.Config) (profile.Profile, error) {
	profiles, err := profile.Discover(cfg.Profiles.Root)
	if err != nil {
		return profile.Profile{}, err
	}

	if noInput {
		return profile.SelectUnattended(profiles, cfg.Profiles.Marker)
	}

	selector := &profile.Selector{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: true,
	}
	return selector.Select(profiles, cfg.Profiles.Marker)
}

func setupLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	// Determine config file path
	configPath := cfgFile
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get user home directory: %v", errConfig, err)
		}
		configPath = fmt.Sprintf("%s/.config/packsync/config.yaml", home)
	}

	logger.Info("loading configuration", "path", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}

	logger.Debug("configuration loaded",
		"repo", cfg.Repo.URL,
		"branch", cfg.Repo.Branch,
		"profiles_root", cfg.Profiles.Root,
		"untracked", string(cfg.Sync.Untracked))

	return cfg, nil
}

// exitCodeFor maps each error family to a distinct exit code so automated
// callers can tell failures apart.
func exitCodeFor(err error) int {
	var installErr *deps.InstallError
	var backupErr *backup.Error

	switch {
	case errors.Is(err, errConfig):
		return 2
	case errors.Is(err, profile.ErrRootNotFound),
		errors.Is(err, profile.ErrNoProfiles),
		errors.Is(err, profile.ErrInvalidProfile):
		return 3
	case errors.Is(err, deps.ErrPackageManagerUnavailable), errors.As(err, &installErr):
		return 4
	case errors.As(err, &backupErr):
		return 8
	}

	switch gitcmd.OpOf(err) {
	case gitcmd.OpInit, gitcmd.OpRemote, gitcmd.OpLfsInstall:
		return 5
	case gitcmd.OpFetch, gitcmd.OpDiff, gitcmd.OpCleanPreview:
		return 6
	case gitcmd.OpReset, gitcmd.OpClean, gitcmd.OpLfsPull:
		return 7
	}
	return 1
}

// pause keeps the console window open for double-click launches
func pause() {
	if noInput {
		return
	}
	fmt.Print("Press Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
