package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/talebox"
	"github.com/aretw0/talebox/internal/presentation/tui"
	"github.com/aretw0/talebox/pkg/adapters/console"
	"github.com/aretw0/talebox/pkg/adapters/evdev"
	talehttp "github.com/aretw0/talebox/pkg/adapters/http"
	"github.com/aretw0/talebox/pkg/adapters/process"
	"github.com/aretw0/talebox/pkg/observability"
	"github.com/aretw0/talebox/pkg/ports"
	"github.com/aretw0/talebox/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the library",
	Long: `Starts the player on the configured library. The terminal shows the pages;
buttons come from an evdev device (--input) or from the keyboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if dev, _ := cmd.Flags().GetString("input"); dev != "" {
			cfg.Input.Device = dev
		}
		if addr, _ := cmd.Flags().GetString("http"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(talebox.Version))

		registry, err := cfg.Registry()
		if err != nil {
			return err
		}
		procs := process.NewRunner(process.WithRegistry(registry))
		audio := process.NewPlayer(procs,
			process.WithPlayerLogger(logger),
			process.WithVolume(cfg.Audio.Volume),
		)
		defer audio.Stop()

		input, closeInput, err := openInput(cfg.Input.Device, logger)
		if err != nil {
			return err
		}
		defer closeInput()

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		opts := []talebox.Option{
			talebox.WithLogger(logger),
			talebox.WithDisplay(console.NewDisplay(os.Stdout)),
			talebox.WithAudio(audio),
			talebox.WithInput(input),
			talebox.WithLifecycleHooks(metrics.Hooks(logger)),
			talebox.WithRunnerOptions(
				runner.WithOverlayDir(cfg.Overlay.Dir),
				runner.WithOverlayTimeout(cfg.Overlay.Timeout),
				runner.WithServices(process.NewServices(procs)),
			),
		}
		if cfg.Library.Watch {
			opts = append(opts, talebox.WithWatch(0))
		}

		ctx := cmd.Context()
		p, err := talebox.New(ctx, cfg.Library.Path, opts...)
		if err != nil {
			return err
		}

		if cfg.HTTP.Addr != "" {
			srv := &http.Server{
				Addr:    cfg.HTTP.Addr,
				Handler: talehttp.NewHandler(p.Runner, talehttp.WithLogger(logger)),
			}
			go func() {
				logger.Info("remote control listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("remote control failed", "err", err)
				}
			}()
			defer func() {
				// Give outstanding requests a deadline for completion.
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					srv.Close()
				}
			}()
		}

		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("player stopped: %w", err)
		}
		logger.Info("player stopped")
		return nil
	},
}

func openInput(device string, logger *slog.Logger) (ports.InputSource, func(), error) {
	if device != "" {
		dev, err := evdev.Open(device, evdev.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		logger.Info("reading buttons", "device", device)
		return dev, func() { dev.Close() }, nil
	}

	kb, err := console.NewKeyboard(os.Stdin)
	if err != nil {
		return nil, nil, err
	}
	return kb, func() { kb.Close() }, nil
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("input", "", "evdev device for the buttons (default: keyboard)")
	playCmd.Flags().String("http", "", "Address of the remote control, e.g. :8080")

	// 'play' is the default command
	rootCmd.RunE = playCmd.RunE
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}
