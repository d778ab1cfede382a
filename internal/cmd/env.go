package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/commitollama/commitollama/internal/pkg/config"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/history"
	"github.com/commitollama/commitollama/internal/pkg/security"
	"github.com/commitollama/commitollama/internal/pkg/ui"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	model      string
	endpoint   string
}

func readGlobalFlags(cmd *cobra.Command) globalFlags {
	var f globalFlags
	f.verbose, _ = cmd.Flags().GetBool("verbose")
	f.configPath, _ = cmd.Flags().GetString("config")
	f.model, _ = cmd.Flags().GetString("model")
	f.endpoint, _ = cmd.Flags().GetString("endpoint")
	return f
}

// newConfigManager creates the config manager for cmd and applies the
// --model and --endpoint overrides. Overrides live in memory only.
func newConfigManager(cmd *cobra.Command) (*config.ViperManager, error) {
	f := readGlobalFlags(cmd)
	apperrors.SetVerbose(f.verbose)

	mgr, err := config.NewManager(f.configPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
	}
	if f.configPath != "" {
		apperrors.Debug("Using config file: %s", f.configPath)
	}

	if f.model != "" {
		mgr.SetOverride("model", f.model)
		apperrors.Debug("Model overridden via flag: %s", f.model)
	}
	if f.endpoint != "" {
		mgr.SetOverride("custom.endpoint", f.endpoint)
		apperrors.Debug("Endpoint overridden via flag: %s", f.endpoint)
	}
	return mgr, nil
}

// persistentManager returns a manager without flag overrides, for writes
// that must not leak --model or --endpoint into the file.
func persistentManager(cmd *cobra.Command) (*config.ViperManager, error) {
	return config.NewManager(readGlobalFlags(cmd).configPath)
}

// loadConfig returns the parsed configuration, or the defaults when the
// file cannot be read.
func loadConfig(mgr *config.ViperManager) *config.Config {
	cfg, err := mgr.Load()
	if err != nil {
		apperrors.Warn("Using default configuration: %v", err)
		return config.DefaultConfig()
	}
	applyLogLevel(cfg.Log.Level)
	return cfg
}

// applyLogLevel sets the configured threshold unless --verbose already
// switched to debug.
func applyLogLevel(value string) {
	if apperrors.IsVerbose() {
		return
	}
	level, err := apperrors.ParseLogLevel(value)
	if err != nil {
		apperrors.Warn("Ignoring log.level: %v", err)
		return
	}
	apperrors.SetLevel(level)
}

func newHistoryManager(cfg *config.Config) history.Manager {
	if !cfg.History.Enabled || cfg.History.FilePath == "" {
		return nil
	}
	return history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmEndpoint shows the remote endpoint notice once. With autoAccept the
// notice is acknowledged without asking; otherwise the user must confirm.
// It returns false when the user declined.
func confirmEndpoint(cmd *cobra.Command, mgr *config.ViperManager, uiMgr ui.Manager, autoAccept bool) (bool, error) {
	endpoint := mgr.Resolve().Endpoint
	if !security.NeedsRemoteWarning(endpoint, mgr.IsSecurityWarningAcknowledged()) {
		return true, nil
	}

	fmt.Fprint(os.Stderr, security.RemoteEndpointWarning(endpoint))
	if !autoAccept {
		ok, err := uiMgr.PromptConfirm("Send staged diffs to this endpoint?")
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	fresh, err := persistentManager(cmd)
	if err == nil {
		err = fresh.AcknowledgeSecurityWarning()
	}
	if err != nil {
		apperrors.Warn("Failed to save acknowledgment: %v", err)
	} else {
		uiMgr.ShowInfo(security.RemoteEndpointAcknowledgment)
	}
	return true, nil
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
