package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dangerreport/internal/danger"
	"dangerreport/internal/report"

	"github.com/google/go-github/v75/github"
	"golang.org/x/sync/errgroup"
)

const perPage = 100

// maxStatusDescription is GitHub's limit for a commit status description.
const maxStatusDescription = 140

type CommentAction string

const (
	ActionCreated   CommentAction = "created"
	ActionUpdated   CommentAction = "updated"
	ActionUnchanged CommentAction = "unchanged"
	ActionDeleted   CommentAction = "deleted"
)

// CommentResult describes what happened to the main issue comment.
type CommentResult struct {
	Action  CommentAction `json:"action"`
	ID      int64         `json:"id,omitempty"`
	URL     string        `json:"url,omitempty"`
	Removed int           `json:"removed,omitempty"`
}

// InlineComment is a rendered body anchored to a file/line of the diff.
type InlineComment struct {
	danger.Location
	Body string
}

// InlineSyncResult counts the review comment operations of one sync.
type InlineSyncResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Deleted   int `json:"deleted"`
	Failed    int `json:"failed"`
}

// Poster publishes rendered bodies to the pull requests of one repository.
// Comments it owns are recognised by the hidden DangerID marker, so a rerun
// with the same build ID edits its previous comments instead of adding new ones.
type Poster struct {
	client      *github.Client
	owner       string
	repo        string
	concurrency int
}

func NewPoster(c *Client, owner, repo string, concurrency int) (*Poster, error) {
	if c == nil || c.Client == nil {
		return nil, errors.New("poster: github client is nil")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("poster: invalid repository %q/%q", owner, repo)
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("poster: concurrency must be >= 1, got %d", concurrency)
	}
	return &Poster{client: c.Client, owner: owner, repo: repo, concurrency: concurrency}, nil
}

// HeadSHA returns the head commit of a pull request.
func (p *Poster) HeadSHA(ctx context.Context, pr int) (string, error) {
	pull, _, err := p.client.PullRequests.Get(ctx, p.owner, p.repo, pr)
	if err != nil {
		return "", fmt.Errorf("get pull request #%d: %w", pr, err)
	}
	sha := pull.GetHead().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("pull request #%d has no head sha", pr)
	}
	return sha, nil
}

func (p *Poster) markedIssueComments(ctx context.Context, pr int, marker string) ([]*github.IssueComment, error) {
	var out []*github.IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		comments, resp, err := p.client.Issues.ListComments(ctx, p.owner, p.repo, pr, opts)
		if err != nil {
			return nil, fmt.Errorf("list comments on #%d: %w", pr, err)
		}
		for _, c := range comments {
			if strings.Contains(c.GetBody(), marker) {
				out = append(out, c)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// UpsertIssueComment edits the first comment carrying the build's marker,
// deletes any duplicates, or creates a new comment when none exists.
func (p *Poster) UpsertIssueComment(ctx context.Context, pr int, buildID, body string) (CommentResult, error) {
	existing, err := p.markedIssueComments(ctx, pr, report.DangerIDMarker(buildID))
	if err != nil {
		return CommentResult{}, err
	}

	if len(existing) == 0 {
		created, _, err := p.client.Issues.CreateComment(ctx, p.owner, p.repo, pr, &github.IssueComment{Body: github.Ptr(body)})
		if err != nil {
			return CommentResult{}, fmt.Errorf("create comment on #%d: %w", pr, err)
		}
		return CommentResult{Action: ActionCreated, ID: created.GetID(), URL: created.GetHTMLURL()}, nil
	}

	first := existing[0]
	res := CommentResult{Action: ActionUnchanged, ID: first.GetID(), URL: first.GetHTMLURL()}
	if first.GetBody() != body {
		edited, _, err := p.client.Issues.EditComment(ctx, p.owner, p.repo, first.GetID(), &github.IssueComment{Body: github.Ptr(body)})
		if err != nil {
			return CommentResult{}, fmt.Errorf("edit comment %d: %w", first.GetID(), err)
		}
		res.Action = ActionUpdated
		if edited.GetHTMLURL() != "" {
			res.URL = edited.GetHTMLURL()
		}
	}

	for _, dup := range existing[1:] {
		if _, err := p.client.Issues.DeleteComment(ctx, p.owner, p.repo, dup.GetID()); err != nil {
			return res, fmt.Errorf("delete duplicate comment %d: %w", dup.GetID(), err)
		}
		res.Removed++
	}
	return res, nil
}

// DeleteIssueComments removes every comment carrying the build's marker.
func (p *Poster) DeleteIssueComments(ctx context.Context, pr int, buildID string) (CommentResult, error) {
	existing, err := p.markedIssueComments(ctx, pr, report.DangerIDMarker(buildID))
	if err != nil {
		return CommentResult{}, err
	}
	res := CommentResult{Action: ActionDeleted}
	for _, c := range existing {
		if _, err := p.client.Issues.DeleteComment(ctx, p.owner, p.repo, c.GetID()); err != nil {
			return res, fmt.Errorf("delete comment %d: %w", c.GetID(), err)
		}
		res.Removed++
	}
	return res, nil
}

func (p *Poster) markedReviewComments(ctx context.Context, pr int, marker string) ([]*github.PullRequestComment, error) {
	var out []*github.PullRequestComment
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		comments, resp, err := p.client.PullRequests.ListComments(ctx, p.owner, p.repo, pr, opts)
		if err != nil {
			return nil, fmt.Errorf("list review comments on #%d: %w", pr, err)
		}
		for _, c := range comments {
			if strings.Contains(c.GetBody(), marker) {
				out = append(out, c)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func reviewCommentLocation(c *github.PullRequestComment) danger.Location {
	line := c.GetLine()
	if line == 0 {
		line = c.GetOriginalLine()
	}
	return danger.Location{File: c.GetPath(), Line: line}
}

// SyncInlineComments makes the pull request's review comments for buildID
// match comments: existing comments at the same location are edited, new
// locations get a comment on commitSHA, and marked comments at locations no
// longer reported are deleted. Requests run with bounded concurrency; every
// failure is collected and returned joined.
func (p *Poster) SyncInlineComments(ctx context.Context, pr int, buildID, commitSHA string, comments []InlineComment) (InlineSyncResult, error) {
	existing, err := p.markedReviewComments(ctx, pr, report.DangerIDMarker(buildID))
	if err != nil {
		return InlineSyncResult{}, err
	}

	byLocation := make(map[danger.Location][]*github.PullRequestComment)
	for _, c := range existing {
		loc := reviewCommentLocation(c)
		byLocation[loc] = append(byLocation[loc], c)
	}

	var (
		mu   sync.Mutex
		res  InlineSyncResult
		errs []error
	)
	record := func(apply func(*InlineSyncResult), err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			res.Failed++
			errs = append(errs, err)
			return
		}
		apply(&res)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	wanted := make(map[danger.Location]bool, len(comments))
	for _, ic := range comments {
		wanted[ic.Location] = true
		prior := byLocation[ic.Location]

		var stale []*github.PullRequestComment
		if len(prior) > 1 {
			stale = prior[1:]
		}
		for _, c := range stale {
			g.Go(func() error {
				record(func(r *InlineSyncResult) { r.Deleted++ }, p.deleteReviewComment(gctx, c.GetID()))
				return nil
			})
		}

		g.Go(func() error {
			if len(prior) == 0 {
				record(func(r *InlineSyncResult) { r.Created++ }, p.createReviewComment(gctx, pr, commitSHA, ic))
				return nil
			}
			if prior[0].GetBody() == ic.Body {
				record(func(r *InlineSyncResult) { r.Unchanged++ }, nil)
				return nil
			}
			record(func(r *InlineSyncResult) { r.Updated++ }, p.editReviewComment(gctx, prior[0].GetID(), ic.Body))
			return nil
		})
	}

	for loc, cs := range byLocation {
		if wanted[loc] {
			continue
		}
		for _, c := range cs {
			g.Go(func() error {
				record(func(r *InlineSyncResult) { r.Deleted++ }, p.deleteReviewComment(gctx, c.GetID()))
				return nil
			})
		}
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return res, errors.Join(errs...)
}

func (p *Poster) createReviewComment(ctx context.Context, pr int, commitSHA string, ic InlineComment) error {
	_, _, err := p.client.PullRequests.CreateComment(ctx, p.owner, p.repo, pr, &github.PullRequestComment{
		Body:     github.Ptr(ic.Body),
		CommitID: github.Ptr(commitSHA),
		Path:     github.Ptr(ic.File),
		Line:     github.Ptr(ic.Line),
		Side:     github.Ptr("RIGHT"),
	})
	if err != nil {
		return fmt.Errorf("create review comment at %s:%d: %w", ic.File, ic.Line, err)
	}
	return nil
}

func (p *Poster) editReviewComment(ctx context.Context, id int64, body string) error {
	if _, _, err := p.client.PullRequests.EditComment(ctx, p.owner, p.repo, id, &github.PullRequestComment{Body: github.Ptr(body)}); err != nil {
		return fmt.Errorf("edit review comment %d: %w", id, err)
	}
	return nil
}

func (p *Poster) deleteReviewComment(ctx context.Context, id int64) error {
	if _, err := p.client.PullRequests.DeleteComment(ctx, p.owner, p.repo, id); err != nil {
		return fmt.Errorf("delete review comment %d: %w", id, err)
	}
	return nil
}

// SetStatus creates a commit status on sha. Descriptions longer than GitHub
// accepts are shortened.
func (p *Poster) SetStatus(ctx context.Context, sha, state, description, statusContext string) error {
	if sha == "" {
		return errors.New("set status: commit sha is empty")
	}
	if r := []rune(description); len(r) > maxStatusDescription {
		description = string(r[:maxStatusDescription-3]) + "..."
	}
	_, _, err := p.client.Repositories.CreateStatus(ctx, p.owner, p.repo, sha, &github.RepoStatus{
		State:       github.Ptr(state),
		Description: github.Ptr(description),
		Context:     github.Ptr(statusContext),
	})
	if err != nil {
		return fmt.Errorf("set status on %s: %w", sha, err)
	}
	return nil
}
