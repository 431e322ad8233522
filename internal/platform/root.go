package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the optional CLI configuration file name.
const ConfigFile = "runways.yaml"

// FindConfig looks upwards from startDir for a runways.yaml file and returns
// its absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if candidate := filepath.Join(dir, ConfigFile); isFile(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found above %s", ConfigFile, abs)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
