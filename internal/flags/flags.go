package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// the config validation messages. Keeping these as constants helps avoid
// drift between Cobra flag wiring and code that needs to name a flag.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Target.ID, flags.FlagID, "default", "...")
//	arg := "--" + flags.FlagID
const (
	// Input
	FlagResults = "results"
	FlagConfig  = "config"

	// Target
	FlagID     = "id"
	FlagCommit = "commit"
	FlagRepo   = "repo"
	FlagPR     = "pr"

	// Render
	FlagInlineFile = "inline-file"
	FlagInlineLine = "inline-line"

	// Meta
	FlagRuntimeName = "runtime-name"
	FlagRuntimeHref = "runtime-href"

	// Output
	FlagConsoleFormat = "console-format"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagNoConsole     = "no-console"

	// Post
	FlagNoInline      = "no-inline"
	FlagStatus        = "status"
	FlagStatusContext = "status-context"
	FlagDryRun        = "dry-run"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagGitHubURL   = "github-url"
	FlagVerbose     = "verbose"
)
