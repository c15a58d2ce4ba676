package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dangerreport/internal/output"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in sync:
	// - CLI flags in internal/cli (render.go, post.go)
	// - YAML keys documented in internal/config/file.go
	Results Results `yaml:"results"`
	Target  Target  `yaml:"target"`
	Render  Render  `yaml:"render"`
	Output  Output  `yaml:"output"`
	Post    Post    `yaml:"post"`
	Runtime Runtime `yaml:"runtime"`
	Meta    Meta    `yaml:"meta"`
}

type Results struct {
	// Path is the results JSON document to render (see --results). "-" reads stdin.
	Path string `yaml:"path"`
}

type Target struct {
	// ID is the stable identifier embedded in the hidden DangerID marker (see --id).
	ID string `yaml:"id" validate:"required"`

	// Commit is the commit reference named in the signature (see --commit).
	// For post, it is also the commit inline comments and statuses are attached to;
	// when empty the pull request head SHA is used.
	Commit string `yaml:"commit"`

	// Repo is the GitHub repository as OWNER/REPO (see --repo). Post only.
	// Defaults to $GITHUB_REPOSITORY.
	Repo string `yaml:"repo" validate:"omitempty,contains=/"`

	// PR is the pull request number to comment on (see --pr). Post only.
	PR int `yaml:"pr" validate:"gte=0"`
}

type Render struct {
	// InlineFile and InlineLine select the compact inline body instead of the
	// issue body (see --inline-file / --inline-line). Both or neither.
	InlineFile string `yaml:"inline_file"`
	InlineLine int    `yaml:"inline_line" validate:"gte=0"`
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string `yaml:"console_format"`

	// Out writes rendered documents to this path (see --out).
	Out string `yaml:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: markdown, json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string `yaml:"out_format"`

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool `yaml:"no_console"`
}

type Post struct {
	// Inline posts inline violations as review comments on their file/line
	// (disable with --no-inline).
	Inline bool `yaml:"inline"`

	// Status sets a commit status summarising the results (see --status).
	Status bool `yaml:"status"`

	// StatusContext labels the commit status (see --status-context).
	StatusContext string `yaml:"status_context"`

	// DryRun renders and prints without calling the GitHub API (see --dry-run).
	DryRun bool `yaml:"dry_run"`
}

type Runtime struct {
	// Concurrency bounds parallel inline comment requests (see --concurrency).
	Concurrency int `yaml:"concurrency" validate:"gte=1"`

	// Timeout is the global timeout for a post run (see --timeout).
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`

	// BaseURL is the GitHub API base URL, for GitHub Enterprise (see --github-url).
	BaseURL string `yaml:"github_url" validate:"omitempty,url"`

	// Verbose prints every GitHub API call to stderr.
	Verbose bool `yaml:"verbose"`
}

type Meta struct {
	// RuntimeName and RuntimeHref replace the signature link when the results
	// document carries no meta (see --runtime-name / --runtime-href).
	RuntimeName string `yaml:"runtime_name"`
	RuntimeHref string `yaml:"runtime_href" validate:"omitempty,url"`
}

func New() *Config {
	return &Config{
		Target: Target{
			ID: "default",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Post: Post{
			Inline:        true,
			StatusContext: "dangerreport",
		},
		Runtime: Runtime{
			Concurrency: 5,
			Timeout:     5 * time.Minute,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldFlags maps validator namespaces to the flag users set them with.
var fieldFlags = map[string]string{
	"Config.Target.ID":           "--id",
	"Config.Target.Repo":         "--repo",
	"Config.Target.PR":           "--pr",
	"Config.Render.InlineLine":   "--inline-line",
	"Config.Runtime.Concurrency": "--concurrency",
	"Config.Runtime.Timeout":     "--timeout",
	"Config.Runtime.BaseURL":     "--github-url",
	"Config.Meta.RuntimeHref":    "--runtime-href",
}

// Validate normalizes the config and checks settings shared by every command.
func (c *Config) Validate() error {
	c.Results.Path = strings.TrimSpace(c.Results.Path)
	c.Target.ID = strings.TrimSpace(c.Target.ID)
	c.Target.Repo = strings.Trim(strings.TrimSpace(c.Target.Repo), "/")
	c.Render.InlineFile = strings.TrimSpace(c.Render.InlineFile)

	if c.Results.Path == "" {
		return errors.New("--results must be provided (use - for stdin)")
	}

	if err := validate.Struct(c); err != nil {
		return translateValidationError(err)
	}

	if (c.Render.InlineFile == "") != (c.Render.InlineLine == 0) {
		return errors.New("--inline-file and --inline-line must be provided together")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			format, err := output.InferFormat(c.Output.Out)
			if err != nil {
				return fmt.Errorf("%w; use --out-format", err)
			}
			c.Output.OutFormat = format
		} else if c.Output.OutFormat != "markdown" && c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	return nil
}

// ValidatePost checks the settings only the post command needs.
func (c *Config) ValidatePost() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Render.InlineFile != "" {
		return errors.New("--inline-file/--inline-line are not supported by post; inline comments are derived from the results")
	}
	if c.Post.DryRun {
		return nil
	}
	if _, _, err := c.Target.OwnerRepo(); err != nil {
		return err
	}
	if c.Target.PR <= 0 {
		return errors.New("--pr must be >= 1")
	}
	c.Post.StatusContext = strings.TrimSpace(c.Post.StatusContext)
	if c.Post.Status && c.Post.StatusContext == "" {
		return errors.New("--status-context must not be empty when --status is set")
	}
	return nil
}

// OwnerRepo splits Target.Repo into its owner and name.
func (t Target) OwnerRepo() (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(t.Repo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid --repo value %q: expected OWNER/REPO", t.Repo)
	}
	return owner, repo, nil
}

// ApplyEnv fills unset targeting fields from CI environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if c.Target.Repo == "" {
		c.Target.Repo = strings.TrimSpace(getenv("GITHUB_REPOSITORY"))
	}
	if c.Runtime.BaseURL == "" {
		if api := strings.TrimSpace(getenv("GITHUB_API_URL")); api != "" && api != "https://api.github.com" {
			c.Runtime.BaseURL = api
		}
	}
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := fieldFlags[fe.Namespace()]
		if !ok {
			name = fe.Namespace()
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s value %q: %s", name, fmt.Sprint(fe.Value()), describeTag(fe)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "url":
		return "must be a URL"
	case "contains":
		return "must contain " + fe.Param()
	default:
		return fe.Tag()
	}
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
