package main

import (
	"fmt"
	"os"

	"taskboard/client"
	"taskboard/config"
	"taskboard/logging"
	"taskboard/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "board",
		Short:         "Terminal kanban board for taskboard",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, api, err := setup()
			if err != nil {
				return err
			}
			model := tui.New(api, tui.Options{Email: cfg.Email, SaveToken: cfg.SaveToken})
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.BoardConfigPath(), "path to board.yaml")

	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(moveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the board configuration, sends logs to the board's own file so
// the terminal stays clean and builds an API client with the saved session.
func setup() (*config.BoardConfig, *client.Client, error) {
	cfg, err := config.LoadBoard(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", configPath, err)
	}
	logging.InitLogger(logging.Options{SystemName: "taskboard-board", File: cfg.LogFile, Level: "info"})

	api := client.New(cfg.ServerURL,
		client.WithToken(cfg.LoadToken()),
		client.WithUnauthorizedHandler(func() {
			if err := cfg.SaveToken(""); err != nil {
				logging.Logger.Warnf("Event ID: TOKEN_SAVE_FAILED, Description: %v", err)
			}
		}),
	)
	return cfg, api, nil
}
