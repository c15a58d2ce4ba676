package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dangerreport/internal/config"
	"dangerreport/internal/danger"
	gh "dangerreport/internal/github"
	"dangerreport/internal/output"
	"dangerreport/internal/report"
)

func exitCodeForRun(fatal, partial, fails bool) int {
	// Exit code contract:
	// 0 = rendered/posted, no failures in the result set
	// 1 = rendered/posted, result set contains failures
	// 2 = partial failure (some inline comments, statuses or sinks failed)
	// 3 = fatal error (nothing was rendered or posted)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if fails {
		return 1
	}
	return 0
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	// Console Sink
	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	// File Sink
	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

// Engine runs the render and post commands. Stdin is used for a results
// path of "-"; Stdout receives console output and Stderr diagnostics.
type Engine struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func NewEngine() *Engine {
	return &Engine{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *Engine) logf(cfg *config.Config, format string, args ...any) {
	if cfg.Output.NoConsole {
		return
	}
	fmt.Fprintf(e.Stderr, format, args...)
}

func (e *Engine) errorf(format string, args ...any) {
	fmt.Fprintf(e.Stderr, "Error: "+format+"\n", args...)
}

func (e *Engine) loadResults(cfg *config.Config) (danger.ResultSet, error) {
	var (
		rs  danger.ResultSet
		err error
	)
	if cfg.Results.Path == "-" && e.Stdin != nil {
		rs, err = danger.Decode(e.Stdin)
		if err != nil {
			err = fmt.Errorf("stdin: %w", err)
		}
	} else {
		rs, err = danger.Load(cfg.Results.Path)
	}
	if err != nil {
		return danger.ResultSet{}, err
	}
	applyMeta(&rs, cfg.Meta)
	return rs, nil
}

// applyMeta fills the runtime link from configuration when the results
// document did not carry one. Unset fields keep the defaults.
func applyMeta(rs *danger.ResultSet, m config.Meta) {
	if rs.Meta != nil {
		return
	}
	if m.RuntimeName == "" && m.RuntimeHref == "" {
		return
	}
	meta := danger.DefaultMeta()
	if m.RuntimeName != "" {
		meta.RuntimeName = m.RuntimeName
	}
	if m.RuntimeHref != "" {
		meta.RuntimeHref = m.RuntimeHref
	}
	rs.Meta = &meta
}

// Render renders the results into a single document and writes it to the
// configured sinks.
func (e *Engine) Render(_ context.Context, cfg *config.Config) int {
	rs, err := e.loadResults(cfg)
	if err != nil {
		e.errorf("loading results: %v", err)
		return exitCodeForRun(true, false, false)
	}

	outMgr, err := setupOutputManager(cfg, e.Stdout)
	if err != nil {
		e.errorf("creating output sinks: %v", err)
		return exitCodeForRun(true, false, false)
	}

	_ = outMgr.Write(output.Event{Type: "run.started"})

	doc := output.Document{Kind: output.KindIssue, ID: cfg.Target.ID}
	if cfg.Render.InlineFile != "" {
		doc.Kind = output.KindInline
		doc.File = cfg.Render.InlineFile
		doc.Line = cfg.Render.InlineLine
		doc.Body = report.RenderInlineBody(cfg.Target.ID, rs, doc.File, doc.Line)
	} else {
		doc.Body = report.RenderIssueBody(cfg.Target.ID, rs, cfg.Target.Commit)
	}

	partial := false
	if err := outMgr.Write(doc); err != nil {
		e.errorf("%v", err)
		partial = true
	}

	code := exitCodeForRun(false, partial, rs.HasFails())
	_ = outMgr.Write(output.Event{Type: "run.finished", Documents: 1, ExitCode: code})
	if err := outMgr.Close(); err != nil {
		e.errorf("%v", err)
		return exitCodeForRun(false, true, rs.HasFails())
	}
	return code
}

// postPlan is everything post will publish, rendered up front so a dry run
// shows exactly what would be sent.
type postPlan struct {
	main       output.Document
	deleteMain bool
	inline     []gh.InlineComment
	inlineDocs []output.Document
}

func buildPostPlan(cfg *config.Config, rs danger.ResultSet) postPlan {
	mainResults := rs
	if cfg.Post.Inline {
		mainResults = rs.Regular()
	}

	plan := postPlan{
		main: output.Document{
			Kind: output.KindIssue,
			ID:   cfg.Target.ID,
			Body: report.RenderIssueBody(cfg.Target.ID, mainResults, cfg.Target.Commit),
		},
		deleteMain: mainResults.IsEmpty(),
	}
	if !cfg.Post.Inline {
		return plan
	}

	for _, g := range rs.InlineGroups() {
		body := report.RenderInlineBody(cfg.Target.ID, g.Results, g.File, g.Line)
		plan.inline = append(plan.inline, gh.InlineComment{Location: g.Location, Body: body})
		plan.inlineDocs = append(plan.inlineDocs, output.Document{
			Kind: output.KindInline,
			ID:   cfg.Target.ID,
			File: g.File,
			Line: g.Line,
			Body: body,
		})
	}
	return plan
}

// Post renders the results and publishes them to a pull request: the main
// comment, inline review comments and optionally a commit status.
func (e *Engine) Post(ctx context.Context, cfg *config.Config) int {
	rs, err := e.loadResults(cfg)
	if err != nil {
		e.errorf("loading results: %v", err)
		return exitCodeForRun(true, false, false)
	}

	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	plan := buildPostPlan(cfg, rs)

	var poster *gh.Poster
	if !cfg.Post.DryRun {
		poster, err = e.newPoster(ctx, cfg)
		if err != nil {
			e.errorf("%v", err)
			return exitCodeForRun(true, false, false)
		}
	}

	outMgr, err := setupOutputManager(cfg, e.Stdout)
	if err != nil {
		e.errorf("creating output sinks: %v", err)
		return exitCodeForRun(true, false, false)
	}

	_ = outMgr.Write(output.Event{Type: "run.started"})

	var errs []error
	docs := append([]output.Document{plan.main}, plan.inlineDocs...)
	for _, d := range docs {
		if err := outMgr.Write(d); err != nil {
			errs = append(errs, err)
		}
	}

	if poster != nil {
		errs = append(errs, e.publish(ctx, cfg, rs, plan, poster, outMgr)...)
	} else {
		e.logf(cfg, "Dry run: rendered %d document(s) for %s#%d, nothing posted.\n", len(docs), cfg.Target.Repo, cfg.Target.PR)
	}

	for _, err := range errs {
		e.errorf("%v", err)
	}
	code := exitCodeForRun(false, len(errs) > 0, rs.HasFails())
	_ = outMgr.Write(output.Event{Type: "run.finished", Documents: len(docs), ExitCode: code})
	if err := outMgr.Close(); err != nil {
		e.errorf("%v", err)
		return exitCodeForRun(false, true, rs.HasFails())
	}
	return code
}

func (e *Engine) newPoster(ctx context.Context, cfg *config.Config) (*gh.Poster, error) {
	owner, repo, err := cfg.Target.OwnerRepo()
	if err != nil {
		return nil, err
	}

	token, source, err := gh.ResolveAuthToken(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("GitHub auth token is required (set DANGER_GITHUB_API_TOKEN or GITHUB_TOKEN, or run 'gh auth login')")
	}
	if cfg.Runtime.Verbose {
		fmt.Fprintf(e.Stderr, "[verbose] github auth: token from %s\n", source)
	}

	client, err := gh.NewClient(ctx, token,
		gh.WithVerbose(cfg.Runtime.Verbose, e.Stderr),
		gh.WithBaseURL(cfg.Runtime.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return gh.NewPoster(client, owner, repo, cfg.Runtime.Concurrency)
}

// publish performs the GitHub side of post. Each step is attempted even if an
// earlier one failed; the returned errors make the run a partial failure.
func (e *Engine) publish(ctx context.Context, cfg *config.Config, rs danger.ResultSet, plan postPlan, poster *gh.Poster, outMgr *output.Manager) []error {
	var errs []error
	pr := cfg.Target.PR

	var (
		res gh.CommentResult
		err error
	)
	if plan.deleteMain {
		res, err = poster.DeleteIssueComments(ctx, pr, cfg.Target.ID)
	} else {
		res, err = poster.UpsertIssueComment(ctx, pr, cfg.Target.ID, plan.main.Body)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("main comment: %w", err))
	} else {
		_ = outMgr.Write(output.Event{Type: "comment.posted", Action: string(res.Action), URL: res.URL})
		e.logf(cfg, "Main comment on %s#%d: %s\n", cfg.Target.Repo, pr, describeComment(res))
	}

	needSHA := cfg.Post.Inline || cfg.Post.Status
	sha := cfg.Target.Commit
	if needSHA && sha == "" {
		sha, err = poster.HeadSHA(ctx, pr)
		if err != nil {
			return append(errs, fmt.Errorf("resolve head commit: %w", err))
		}
	}

	if cfg.Post.Inline {
		synced, err := poster.SyncInlineComments(ctx, pr, cfg.Target.ID, sha, plan.inline)
		if err != nil {
			errs = append(errs, fmt.Errorf("inline comments: %w", err))
		}
		e.logf(cfg, "Inline comments: %d created, %d updated, %d unchanged, %d deleted, %d failed\n",
			synced.Created, synced.Updated, synced.Unchanged, synced.Deleted, synced.Failed)
	}

	if cfg.Post.Status {
		state := report.StatusState(rs)
		if err := poster.SetStatus(ctx, sha, state, report.MessageForResults(rs), cfg.Post.StatusContext); err != nil {
			errs = append(errs, fmt.Errorf("commit status: %w", err))
		} else {
			e.logf(cfg, "Commit status %q on %s: %s\n", cfg.Post.StatusContext, shortSHA(sha), state)
		}
	}

	return errs
}

func describeComment(res gh.CommentResult) string {
	switch res.Action {
	case gh.ActionDeleted:
		if res.Removed == 0 {
			return "nothing to report, no comment"
		}
		return fmt.Sprintf("nothing to report, deleted %d comment(s)", res.Removed)
	default:
		msg := string(res.Action)
		if res.URL != "" {
			msg += " " + res.URL
		}
		if res.Removed > 0 {
			msg += fmt.Sprintf(" (removed %d duplicate(s))", res.Removed)
		}
		return msg
	}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
