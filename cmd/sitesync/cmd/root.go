package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sitesync "github.com/Altinity/site-sync"
	"github.com/Altinity/site-sync/config"
	"github.com/Altinity/site-sync/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sitesync",
	Short: "Mirror a static site build into an object-storage bucket",
	Long: `Publishes the files of a static site build under a key prefix of a bucket.
Text assets are gzip-compressed deterministically, unchanged files are
skipped by comparing MD5 fingerprints with the stored ETags, and objects no
longer produced by the build are deleted once every upload succeeded.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		cmd.Annotations = make(map[string]string)
		cmd.Annotations["error"] = ""
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logging.ReloadGlobalLogger()

		log.Info().
			Str("version", config.Version).
			Msg("Starting site sync")

		if _, err := sitesync.Run(ctx, sitesync.OptionsFromConfig()); err != nil {
			cmd.Annotations["error"] = err.Error()
			log.Error().
				Err(err).
				Msg("Error publishing site")
		}
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		logging.Flush()
		if cmd.Annotations["error"] != "" {
			os.Exit(1)
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sitesync/config.yaml)")
	flags.String("root", "", "directory holding the built site")
	flags.String("prefix", "", "key prefix inside the bucket")
	flags.String("bucket", "", "destination bucket")
	flags.Bool("dry-run", false, "log the plan without changing the bucket")

	for key, flag := range map[string]string{
		"publish.root":   "root",
		"publish.prefix": "prefix",
		"publish.bucket": "bucket",
		"publish.dryRun": "dry-run",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	if err := config.InitConfig(cfgFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	sitesync.Reload()
}
