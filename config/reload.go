package config

import (
	"maps"
	"slices"
	"sync"
)

var configReloadMutex = &sync.Mutex{}

// Reload refreshes every registered key from viper, in name order, and
// returns the keys whose value changed or failed validation.
func Reload() []*ReloadedKey {
	configReloadMutex.Lock()
	defer configReloadMutex.Unlock()

	var reloadedKeys []*ReloadedKey

	for _, name := range slices.Sorted(maps.Keys(keys)) {
		update := keys[name].Update()
		if update != nil {
			reloadedKeys = append(reloadedKeys, update)
		}
	}

	return reloadedKeys
}
