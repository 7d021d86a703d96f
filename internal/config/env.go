package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// EnvFiles are the dotenv files picked up next to the configuration file.
var EnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads the dotenv files found in dir into the process
// environment and returns the ones it read. Variables that are already set
// are not overwritten, so .env wins over .env.local for the same key.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range EnvFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, errors.ConfigInvalid(name, err.Error())
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
