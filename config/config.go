package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every automatically bound environment variable,
// so publish.bucket is read from SITESYNC_PUBLISH_BUCKET.
const EnvPrefix = "SITESYNC"

var keys = make(map[string]*Key)

// InitConfig loads settings from the given file, or from config.yaml in
// $HOME/.sitesync or the working directory, and from the environment. A
// missing config file is not an error.
func InitConfig(cfgFile string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("$HOME/.sitesync")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return err
		}
	}

	return nil
}
