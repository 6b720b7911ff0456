// Package main provides the entry point for bitvpn.
// bitvpn connects to a NetworkManager VPN whose password, optionally
// followed by a TOTP code, is kept in a Bitwarden vault item.
//
// Usage:
//
//	bitvpn [options]
//
// Environment:
//
//	The application requires the Bitwarden CLI (bw) and nmcli. rofi and a
//	desktop notification service are used when present.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/yllada/bitvpn/cli"
	"github.com/yllada/bitvpn/command"
	"github.com/yllada/bitvpn/common"
	"github.com/yllada/bitvpn/config"
	"github.com/yllada/bitvpn/keyring"
	"github.com/yllada/bitvpn/mediator"
	"github.com/yllada/bitvpn/vault"
	"github.com/yllada/bitvpn/vpn"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.New(os.Args, version(), os.Stdout)
	if errors.Is(err, common.ErrHelpShown) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logLevel := common.LevelWarn
	if cfg.Verbose {
		logLevel = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:      logLevel,
		EnableFile: true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	if err := cfg.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if missing := missingBinaries(cfg.Disconnect); len(missing) > 0 {
		common.LogError("Missing required programs: %v", missing)
		fmt.Fprintf(os.Stderr, "Error: %v not found in PATH\n", missing)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	runner := command.NewExecRunner()
	app := cli.New(cfg,
		vault.NewClient(runner),
		vpn.NewClient(runner),
		mediator.New(cfg.ForceStd, runner),
		keyring.New(),
	)

	common.LogDebug("Starting %s %s", common.AppName, appVersion)
	if err := app.Run(ctx); err != nil {
		common.LogError("Run failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func version() string {
	if buildTime == "unknown" {
		return appVersion
	}
	return fmt.Sprintf("%s (build %s, commit %s)", appVersion, buildTime, commitSHA)
}

// setupSignalHandler configures graceful shutdown on SIGINT/SIGTERM.
// Cancelling the context kills the subprocess that is running.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, shutting down", sig)
		cancel()
	}()
}

// missingBinaries returns the required programs that are not in PATH.
// The vault is not needed to disconnect.
func missingBinaries(disconnect bool) []string {
	required := []string{common.NetworkBinary}
	if !disconnect {
		required = append(required, common.VaultBinary)
	}

	var missing []string
	for _, bin := range required {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}
