package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}
