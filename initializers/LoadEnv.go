package initializers

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnvVariables loads .env into the environment without overriding
// variables that are already set. A missing .env is not an error.
func LoadEnvVariables() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}
}
