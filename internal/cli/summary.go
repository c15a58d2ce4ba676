package cli

import (
	"fmt"
	"io"
	"os"

	"dangerreport/internal/danger"
	"dangerreport/internal/flags"
	"dangerreport/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a colourised overview of a results document",
	Long: `Print the counts of each category and the (truncated) messages of a
Danger results document, for reading in a terminal.

Exit codes:
	0 = no failures
	1 = results contain failures
	3 = results could not be read

Examples:
	dangerreport summary --results danger-results.json
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.Results.Path == "" {
			_ = cmd.Help()
			return
		}
		rs, err := danger.Load(cfg.Results.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading results: %v\n", err)
			os.Exit(3)
		}
		printSummary(cmd.OutOrStdout(), rs)
		if rs.HasFails() {
			os.Exit(1)
		}
	},
}

type summaryCategory struct {
	name  string
	paint *color.Color
	vs    []danger.Violation
}

func printSummary(w io.Writer, rs danger.ResultSet) {
	bold := color.New(color.Bold)
	meta := rs.ResolvedMeta()
	counts := rs.Counts()

	bold.Fprintf(w, "Danger results (%s)\n", meta.RuntimeName)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		color.RedString("%d fails", counts.Fails),
		color.YellowString("%d warnings", counts.Warnings),
		color.CyanString("%d messages", counts.Messages),
		fmt.Sprintf("%d markdowns", counts.Markdowns),
	)

	categories := []summaryCategory{
		{name: "Fails", paint: color.New(color.FgRed, color.Bold), vs: rs.Fails},
		{name: "Warnings", paint: color.New(color.FgYellow, color.Bold), vs: rs.Warnings},
		{name: "Messages", paint: color.New(color.FgCyan, color.Bold), vs: rs.Messages},
	}
	for _, c := range categories {
		if len(c.vs) == 0 {
			continue
		}
		fmt.Fprintln(w)
		c.paint.Fprintf(w, "%s (%d)\n", c.name, len(c.vs))
		for _, v := range c.vs {
			loc := ""
			if v.IsInline() {
				loc = color.New(color.Faint).Sprintf("%s:%d ", v.File, v.Line)
			}
			fmt.Fprintf(w, "  - %s%s\n", loc, report.Truncate(v.Message))
		}
	}

	if rs.IsEmpty() {
		fmt.Fprintln(w)
		color.New(color.FgGreen).Fprintln(w, report.AllGreenMessage)
	}
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&cfg.Results.Path, flags.FlagResults, cfg.Results.Path, "Danger results JSON document (- reads stdin)")
}
