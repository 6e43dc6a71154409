package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"volumectl/internal/adapter/primary/bridge"
	"volumectl/internal/adapter/primary/web"
	"volumectl/internal/adapter/secondary/repository"
	"volumectl/internal/adapter/secondary/volume"
	"volumectl/internal/domain"
	"volumectl/internal/logging"
	"volumectl/internal/usecase"
)

var (
	cfgPath     string
	verbosity   int
	backendFlag string
	streamFlag  string
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to bridge calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "volumectl",
		Short:         "Query and set the device media volume",
		Long:          "Volume bridge exposing getVolume, setVolume, isMuted and getVolumeInfo to scripts over HTTP/WebSocket and to the shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", repository.DefaultPath(), "path to the settings file")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "audio backend: system|osascript|memory (overrides settings)")
	cmd.PersistentFlags().StringVar(&streamFlag, "stream", "", "stream: media|input (overrides settings)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newGetCmd(),
		newSetCmd(),
		newMutedCmd(),
		newInfoCmd(),
		newExecCmd(),
		newServeCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

// loadSettings reads the settings file and applies command-line overrides.
func loadSettings(cmd *cobra.Command) (domain.Settings, *repository.FileRepository, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return domain.Settings{}, nil, err
	}
	settings, err := repo.Load()
	if err != nil {
		return domain.Settings{}, nil, err
	}
	if cmd.Flags().Changed("backend") {
		settings.Backend = backendFlag
	}
	if cmd.Flags().Changed("stream") {
		settings.Stream = streamFlag
	}
	settings, err = domain.NewSettingsService().ValidateAndNormalize(settings)
	if err != nil {
		return domain.Settings{}, nil, err
	}
	if !cmd.Flags().Changed("verbose") {
		if err := logging.SetLevel(settings.LogLevel); err != nil {
			return domain.Settings{}, nil, err
		}
	}
	return settings, repo, nil
}

var (
	controlsMu sync.Mutex
	controls   = map[string]domain.AudioControl{}
)

// acquireControl returns the process-wide control for the backend,
// creating it on the first request.
func acquireControl(settings domain.Settings) (domain.AudioControl, error) {
	controlsMu.Lock()
	defer controlsMu.Unlock()
	if c, ok := controls[settings.Backend]; ok {
		return c, nil
	}
	c, err := volume.New(settings)
	if err != nil {
		return nil, err
	}
	controls[settings.Backend] = c
	logging.Debugf("acquired %s audio control", settings.Backend)
	return c, nil
}

func newDispatcher(cmd *cobra.Command) (*bridge.Dispatcher, domain.Settings, error) {
	settings, _, err := loadSettings(cmd)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	control, err := acquireControl(settings)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	stream, err := domain.ParseStream(settings.Stream)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	uc, err := usecase.NewVolumeUseCase(control, stream)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	return bridge.NewDispatcher(uc), settings, nil
}

// runAction dispatches action and prints the result as JSON.
func runAction(cmd *cobra.Command, action string, args json.RawMessage) error {
	d, _, err := newDispatcher(cmd)
	if err != nil {
		return err
	}
	result, err := d.Call(action, args)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	if s, ok := v.(string); ok {
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current volume (getVolume)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, bridge.ActionGetVolume, nil)
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <fraction>",
		Short: "Set the volume from a fraction in [0, 1] (setVolume); out-of-range values are clamped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal([]string{args[0]})
			if err != nil {
				return err
			}
			return runAction(cmd, bridge.ActionSetVolume, raw)
		},
	}
}

func newMutedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "muted",
		Short: "Report whether the volume is under the mute threshold (isMuted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, bridge.ActionIsMuted, nil)
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the combined volume snapshot (getVolumeInfo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, bridge.ActionGetVolumeInfo, nil)
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <action> [json-args]",
		Short: "Run a bridge action by name with a JSON array of arguments",
		Example: `  volumectl exec getVolume
  volumectl exec setVolume '[0.25]'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return errors.New("arguments must be valid JSON")
				}
				raw = json.RawMessage(args[1])
			}
			return runAction(cmd, args[0], raw)
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge over HTTP and WebSocket with a small web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, settings, err := newDispatcher(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = settings.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			srv := web.NewServer(d, addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Volume bridge running at http://%s (backend=%s stream=%s)\n", addr, settings.Backend, settings.Stream)
			logging.Infof("Volume bridge: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address host:port (default from settings)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored settings",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the settings (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd, settings)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		addrFlag      string
		logLevelFlag  string
		memoryMaxFlag int
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the settings; --backend and --stream are saved too",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, repo, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				settings.Addr = addrFlag
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = logLevelFlag
			}
			if cmd.Flags().Changed("memory-max") {
				settings.MemoryMaxLevel = memoryMaxFlag
			}
			settings, err = domain.NewSettingsService().ValidateAndNormalize(settings)
			if err != nil {
				return err
			}
			if err := repo.Save(settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved: backend=%s stream=%s addr=%s logLevel=%s memoryMaxLevel=%d\n",
				settings.Backend, settings.Stream, settings.Addr, settings.LogLevel, settings.MemoryMaxLevel)
			return nil
		},
	}
	cmd.Flags().StringVar(&addrFlag, "addr", "", "HTTP listen address host:port")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "", "error|warn|info|debug|trace")
	cmd.Flags().IntVar(&memoryMaxFlag, "memory-max", 15, "max level of the memory backend")
	return cmd
}
