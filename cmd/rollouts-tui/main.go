package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/Taishi66/rollouts-tui/internal/cache"
	"github.com/Taishi66/rollouts-tui/internal/config"
	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/k8s"
	"github.com/Taishi66/rollouts-tui/internal/logging"
	"github.com/Taishi66/rollouts-tui/internal/metrics"
	"github.com/Taishi66/rollouts-tui/internal/tui"
)

var version = "dev"

type options struct {
	configPath  string
	kubeconfig  string
	context     string
	namespace   string
	logFile     string
	logLevel    string
	metricsAddr string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "rollouts-tui",
		Short:         "Terminal dashboard for Argo Rollouts",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o)
		},
	}
	cmd.SetVersionTemplate("rollouts-tui {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", config.DefaultPath(), "config file")
	flags.StringVar(&o.kubeconfig, "kubeconfig", "", "path to the kubeconfig file (default $KUBECONFIG or ~/.kube/config)")
	flags.StringVar(&o.context, "context", "", "kubeconfig context to use")
	flags.StringVarP(&o.namespace, "namespace", "n", "", "namespace to open")
	flags.StringVar(&o.logFile, "log-file", "", "log file (overrides log.file)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		return config.LoadConfig()
	}
	return config.LoadConfigFrom(path)
}

func run(ctx context.Context, o *options) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}

	log, closeLog, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	log.Info("starting", "version", version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := rec.Serve(ctx, cfg.Metrics.Addr, log); err != nil {
				log.Error(err, "metrics server stopped")
			}
		}()
	}

	clientOpts := k8s.Options{
		Kubeconfig: o.kubeconfig,
		Context:    o.context,
		Namespace:  o.namespace,
		Logger:     log.WithName("k8s"),
	}
	// The factory also serves reconnection from the error screen.
	factory := func() (domain.RolloutGateway, error) {
		client, err := k8s.NewClient(clientOpts)
		if err != nil {
			return nil, err
		}
		return cache.NewCachedGateway(client, cfg.Cache), nil
	}
	tuiOpts := []tui.Option{tui.WithLogger(log.WithName("tui")), tui.WithMetrics(rec)}

	var m tui.Model
	gateway, err := factory()
	if err != nil {
		log.Error(err, "cluster connection failed")
		m = tui.NewModelWithError(err, factory, cfg, tuiOpts...)
	} else {
		log.Info("connected", "context", gateway.GetContext(), "namespace", gateway.GetNamespace())
		m = tui.NewModel(gateway, factory, cfg, tuiOpts...)
	}
	return runProgram(m, log)
}

func runProgram(m tui.Model, log logr.Logger) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	if err != nil {
		log.Error(err, "program exited with error")
		return err
	}
	log.Info("exiting")
	return nil
}
