package platform

import (
	"os"
	"path/filepath"
)

// HomeEnvVar overrides where strata keeps its application state
// (configuration and snapshot stores).
const HomeEnvVar = "STRATA_HOME"

// Home resolves the application storage root: $STRATA_HOME when set,
// otherwise <user-config-dir>/strata.
func Home() (string, error) {
	if custom := os.Getenv(HomeEnvVar); custom != "" {
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "strata"), nil
}
