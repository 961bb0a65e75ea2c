package tabular

import "github.com/pantryworks/trackhub/internal/config"

// storeConfigFor builds a StoreConfig without going through the env loader.
func storeConfigFor(driver, dsn string) config.StoreConfig {
	return config.StoreConfig{Driver: driver, DSN: dsn}
}
