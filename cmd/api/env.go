package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads variables from the given env files, or from .env when none
// are given. A missing default .env is fine; a missing named file is not.
// Variables already set in the process environment win.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files %v: %w", files, err)
	}
	return nil
}
