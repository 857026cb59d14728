package config

import "os"

// lookupEnv retrieves an environment variable, mirroring core/util.Getenv's
// os.LookupEnv-based contract (ok is false when unset, not just empty).
func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
