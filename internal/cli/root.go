package cli

import (
	"fmt"
	"os"

	"dangerreport/internal/config"
	"dangerreport/internal/flags"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dangerreport",
	Short: "Render Danger results as pull request comments",
	Long: `dangerreport turns a Danger results document (fails, warnings, messages,
markdowns) into the Markdown/HTML comment bodies Danger posts on GitHub, and can
publish them to a pull request.

Examples:
	# Print the main comment body for a results file
	dangerreport render --results danger-results.json

	# Print the compact inline body for one file/line
	dangerreport render --results danger-results.json --inline-file src/a.ts --inline-line 3

	# Post (or update) the comments on a pull request
	dangerreport post --results danger-results.json --repo acme/widgets --pr 42

	# Colourised overview in a terminal
	dangerreport summary --results danger-results.json

Configuration:
	Settings can also come from a YAML file (--config, or .dangerreport.yml /
	.dangerreport.yaml in the working directory). Flags given on the command
	line always win over the file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := loadConfigFile(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, flags.FlagConfig, "", "YAML config file (default: .dangerreport.yml or .dangerreport.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call)")
}

// loadConfigFile applies the YAML config file underneath the flags the user
// set explicitly, then fills CI defaults from the environment.
func loadConfigFile(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			path = config.FindFile(wd)
		}
	}
	if path != "" {
		// Flags write straight into cfg, so capture them before the file
		// overwrites the same fields.
		explicit := make(map[*pflag.Flag]string)
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicit[f] = f.Value.String()
		})
		if err := cfg.LoadFile(path); err != nil {
			return err
		}
		for f, v := range explicit {
			if err := f.Value.Set(v); err != nil {
				return fmt.Errorf("re-apply --%s: %w", f.Name, err)
			}
		}
	}
	if f := cmd.Flags().Lookup(flags.FlagNoInline); f != nil && f.Changed {
		cfg.Post.Inline = !noInline
	}
	cfg.ApplyEnv(os.Getenv)
	return nil
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
