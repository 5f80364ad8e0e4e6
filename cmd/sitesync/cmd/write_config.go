package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// redacted lists settings never written out.
var redacted = []string{"storage.secretkey"}

var writeConfigCmd = &cobra.Command{
	Use:   "writeConfig",
	Short: "Write the effective config as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := effectiveConfig()
		if err != nil {
			return err
		}

		outFile := cmd.Flag("output").Value.String()
		if outFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}

		f, err := os.OpenFile(outFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outFile, err)
		}
		defer f.Close()

		if _, err := f.Write(b); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFile, err)
		}

		return nil
	},
}

func effectiveConfig() ([]byte, error) {
	settings := viper.AllSettings()

	for _, key := range redacted {
		if viper.GetString(key) != "" {
			setNested(settings, key, "REDACTED")
		}
	}

	return yaml.Marshal(settings)
}

func setNested(m map[string]interface{}, key string, value interface{}) {
	section, name, nested := strings.Cut(key, ".")
	if !nested {
		m[key] = value
		return
	}

	sub, ok := m[section].(map[string]interface{})
	if !ok {
		return
	}
	setNested(sub, name, value)
}

func init() {
	rootCmd.AddCommand(writeConfigCmd)

	writeConfigCmd.Flags().StringP("output", "o", "", "File to write config to (default is stdout)")
}
