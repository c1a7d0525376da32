package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qyinm/storesearch/catalog"
	"github.com/qyinm/storesearch/config"
	"github.com/qyinm/storesearch/logger"
	"github.com/qyinm/storesearch/ui"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "storesearch",
		Short:         "Search a product store from the terminal",
		Long:          "storesearch is a debounced, keyboard and mouse driven product search.\nConfirmed products are printed to stdout on exit.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return runTUI(cmd, cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file (TOML)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newConfigCmd(&configPath))
	return root
}

func runTUI(cmd *cobra.Command, cfg config.Config) error {
	log, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting",
		zap.String("version", version),
		zap.String("mode", cfg.Mode),
		zap.String("base_url", cfg.BaseURL))

	client := catalog.New(cfg.BaseURL,
		catalog.WithTimeout(cfg.RequestTimeout()),
		catalog.WithCacheSize(cfg.CacheSize),
		catalog.WithLogger(log),
	)
	model := ui.NewModel(client, ui.Options{
		Mode:           cfg.DataMode(),
		SelectMode:     cfg.SelectMode(),
		Debounce:       cfg.Debounce(),
		ResultLimit:    cfg.ResultLimit,
		RequestTimeout: cfg.RequestTimeout(),
		Logger:         log,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	if m, ok := final.(ui.Model); ok {
		for _, product := range m.Selections() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", product.ID(), product.Title())
		}
	}
	return nil
}
