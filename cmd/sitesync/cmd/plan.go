package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sitesync "github.com/Altinity/site-sync"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the changes a run would make, as YAML",
	PreRun: func(cmd *cobra.Command, args []string) {
		cmd.Annotations = make(map[string]string)
		cmd.Annotations["error"] = ""
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logging.ReloadGlobalLogger()

		if err := printPlan(ctx, cmd); err != nil {
			cmd.Annotations["error"] = err.Error()
			log.Error().
				Err(err).
				Msg("Error computing plan")
		}
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		logging.Flush()
		if cmd.Annotations["error"] != "" {
			os.Exit(1)
		}
	},
}

func printPlan(ctx context.Context, cmd *cobra.Command) error {
	opts := sitesync.OptionsFromConfig()
	if err := opts.Validate(); err != nil {
		return err
	}

	store, err := storage.New(ctx, opts.Storage)
	if err != nil {
		return err
	}

	state, err := sitesync.Prepare(ctx, afero.NewOsFs(), store, opts)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(4)
	defer enc.Close()

	return enc.Encode(sitesync.NewReport(state.Plan))
}

func init() {
	rootCmd.AddCommand(planCmd)
}
