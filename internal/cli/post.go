package cli

import (
	"context"
	"fmt"
	"os"

	"dangerreport/internal/config"
	"dangerreport/internal/engine"
	"dangerreport/internal/flags"

	"github.com/spf13/cobra"
)

const postHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	dangerreport authenticates to GitHub using an access token.

	Sources (in order):
	1) DANGER_GITHUB_API_TOKEN environment variable
	2) GITHUB_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

	A .env file in the working directory is loaded first, if present.

	GITHUB_REPOSITORY fills --repo and GITHUB_API_URL fills --github-url when
	they are not given, so GitHub Actions needs only --pr.

	Token guidance (brief):
	- The token needs write access to pull requests (comments) and, with
	  --status, to commit statuses.
	- In GitHub Actions, grant "pull-requests: write" and "statuses: write".
`

var noInline bool

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post rendered results to a GitHub pull request",
	Long: `Render a Danger results document and publish it to a pull request.

The main comment carries the hidden marker "DangerID: danger-id-<id>;". A rerun
with the same --id edits that comment instead of adding another, removes
duplicates, and deletes it when there is nothing left to report.

Violations with a file and line are posted as inline review comments on the
commit (--commit, default: the pull request head) and kept in sync: comments at
locations that no longer have violations are removed. Use --no-inline to keep
everything in the main comment.

Output:
	The rendered documents are written to the console (--console-format) and
	--out exactly as with "render". With --console-format ndjson, a
	"comment.posted" event reports the main comment action and URL.

Exit codes:
	0 = posted, no failures in the results
	1 = posted, results contain failures
	2 = partial failure (some comments, the status or a sink failed)
	3 = fatal error (invalid flags, unreadable results, missing token)

Examples:
	dangerreport post --results danger-results.json --repo acme/widgets --pr 42
	dangerreport post --results danger-results.json --pr 42 --id lint --status
	dangerreport post --results danger-results.json --pr 42 --dry-run
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().NFlag() == 0 && cfg.Results.Path == "" {
			_ = cmd.Help()
			return
		}
		os.Exit(runPost(context.Background(), engine.NewEngine(), cfg))
	},
}

func runPost(ctx context.Context, eng *engine.Engine, cfg *config.Config) int {
	if err := cfg.ValidatePost(); err != nil {
		fmt.Fprintf(eng.Stderr, "Error: %v\n", err)
		return 3
	}
	return eng.Post(ctx, cfg)
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.SetHelpTemplate(postHelpTemplate)

	addResultsFlags(postCmd)
	addTargetFlags(postCmd)
	postCmd.Flags().StringVar(&cfg.Target.Repo, flags.FlagRepo, cfg.Target.Repo, "Repository as OWNER/REPO (default: $GITHUB_REPOSITORY)")
	postCmd.Flags().IntVar(&cfg.Target.PR, flags.FlagPR, cfg.Target.PR, "Pull request number")

	postCmd.Flags().BoolVar(&noInline, flags.FlagNoInline, false, "Keep inline violations in the main comment instead of posting review comments")
	postCmd.Flags().BoolVar(&cfg.Post.Status, flags.FlagStatus, cfg.Post.Status, "Also set a commit status summarising the results")
	postCmd.Flags().StringVar(&cfg.Post.StatusContext, flags.FlagStatusContext, cfg.Post.StatusContext, "Context label of the commit status")
	postCmd.Flags().BoolVar(&cfg.Post.DryRun, flags.FlagDryRun, cfg.Post.DryRun, "Render what would be posted without calling GitHub")

	addMetaFlags(postCmd)
	addOutputFlags(postCmd)

	postCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent inline comment requests")
	postCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout")
	postCmd.Flags().StringVar(&cfg.Runtime.BaseURL, flags.FlagGitHubURL, cfg.Runtime.BaseURL, "GitHub API base URL for GitHub Enterprise (default: $GITHUB_API_URL or api.github.com)")
}
