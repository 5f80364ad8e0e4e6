package sitesync

import (
	"github.com/Altinity/site-sync/config"
	"github.com/rs/zerolog/log"
)

// Reload refreshes the configuration keys. Keys that fail validation keep
// their previous value. It reports whether every key loaded cleanly.
func Reload() bool {
	ok := true

	for _, k := range config.Reload() {
		if k.Error != nil {
			ok = false
			log.Error().
				Err(k.Error).
				Str("key", k.Key).
				Msg("Failed to load configuration key, ignoring")
			continue
		}

		// First load of a key is not worth logging
		if k.OldValue != nil {
			log.Debug().
				Str("key", k.Key).
				Msg("Reloaded configuration key")
		}
	}

	return ok
}
