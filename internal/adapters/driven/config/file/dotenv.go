package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory at startup.
const DefaultEnvFile = ".env"

// LoadEnvFiles exports variables from the given dotenv files. Missing files
// are skipped, and variables already present in the environment win.
// It returns the files that were read.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
