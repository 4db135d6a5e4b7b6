package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"guess-the-app/internal/app"
	"guess-the-app/internal/config"
	"guess-the-app/internal/terminal"
)

// NewPlayCmd plays the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath)
		},
	}
}

func runPlay(ctx context.Context, configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if cfg.Log.Level == "" {
		// keep info lines from interleaving with the game screen
		log.SetLevel(logrus.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	bank, err := newBankRepository(cfg, b).GetBank(ctx, bankID(cfg))
	if err != nil {
		return err
	}
	store, err := newPreferenceStore(cfg, b, config.StorageFile)
	if err != nil {
		return err
	}
	prefs := app.NewPreferences(store, log)
	ctrl := app.NewController(ctx, bank, prefs, controllerOptions(cfg, log)...)

	err = terminal.NewGame(ctrl, os.Stdin, os.Stdout, log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
