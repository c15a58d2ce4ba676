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

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a results document as a comment body",
	Long: `Render a Danger results document into the body Danger would post.

Without --inline-file/--inline-line the main pull request comment is rendered:
a hidden summary, one table per non-empty category (Fails, Warnings, Messages),
markdown notices and a signature. With them, the compact inline body for that
file/line is rendered instead.

Output:
	Console output is controlled by --console-format (default: text).
	- text: the rendered body, byte for byte
	- json: an array of documents {kind, id, file, line, body}
	- ndjson: lifecycle Events, one JSON object per line (run.started,
	  document, run.finished)
	--out writes the same documents to a file (markdown, json or ndjson,
	inferred from the extension unless --out-format is given).

Exit codes:
	0 = rendered, no failures in the results
	1 = rendered, results contain failures
	2 = partial failure (an output sink failed)
	3 = fatal error (invalid flags or unreadable results)

Examples:
	dangerreport render --results danger-results.json --id lint --commit abc123
	cat danger-results.json | dangerreport render --results - --out comment.md --no-console
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().NFlag() == 0 && cfg.Results.Path == "" {
			_ = cmd.Help()
			return
		}
		os.Exit(runRender(context.Background(), engine.NewEngine(), cfg))
	},
}

func runRender(ctx context.Context, eng *engine.Engine, cfg *config.Config) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(eng.Stderr, "Error: %v\n", err)
		return 3
	}
	return eng.Render(ctx, cfg)
}

func addResultsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Results.Path, flags.FlagResults, cfg.Results.Path, "Danger results JSON document (- reads stdin)")
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Target.ID, flags.FlagID, cfg.Target.ID, "Build ID embedded in the hidden DangerID marker")
	cmd.Flags().StringVar(&cfg.Target.Commit, flags.FlagCommit, cfg.Target.Commit, "Commit reference shown in the signature")
}

func addMetaFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Meta.RuntimeName, flags.FlagRuntimeName, cfg.Meta.RuntimeName, "Runtime name for the signature when the results carry no meta (default: dangerJS)")
	cmd.Flags().StringVar(&cfg.Meta.RuntimeHref, flags.FlagRuntimeHref, cfg.Meta.RuntimeHref, "Runtime link for the signature when the results carry no meta (default: https://danger.systems/js)")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	cmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, cfg.Output.Out, "Also write rendered documents to this path")
	cmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, cfg.Output.OutFormat, "Format for --out: markdown|json|ndjson (default: inferred from file extension)")
	cmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, cfg.Output.NoConsole, "Suppress console output and progress messages (use with --out)")
}

func init() {
	rootCmd.AddCommand(renderCmd)

	addResultsFlags(renderCmd)
	addTargetFlags(renderCmd)
	renderCmd.Flags().StringVar(&cfg.Render.InlineFile, flags.FlagInlineFile, cfg.Render.InlineFile, "Render the inline body for this file (requires --inline-line)")
	renderCmd.Flags().IntVar(&cfg.Render.InlineLine, flags.FlagInlineLine, cfg.Render.InlineLine, "Render the inline body for this line (requires --inline-file)")
	addMetaFlags(renderCmd)
	addOutputFlags(renderCmd)
}
