package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"dangerreport/internal/cli"

	"github.com/joho/godotenv"
)

// These variables are populated by the build via -ldflags (see Taskfile.yml).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// A local .env may carry DANGER_GITHUB_API_TOKEN; real env vars win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
