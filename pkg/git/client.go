package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Client wraps git command execution for a shadow repository: the metadata
// directory (GitDir) lives outside the tree the commands operate on
// (WorkTree). The user's own repository never sees it.
type Client struct {
	GitDir   string
	WorkTree string
	Logger   *slog.Logger
}

// NewClient creates a git client whose metadata lives at gitDir and whose
// working tree is workTree.
func NewClient(gitDir, workTree string, logger *slog.Logger) *Client {
	return &Client{
		GitDir:   gitDir,
		WorkTree: workTree,
		Logger:   logger,
	}
}

// IsInstalled reports whether the git executable is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether a repository already exists at GitDir.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.GitDir, "HEAD"))
	return err == nil && !info.IsDir()
}

// Run executes a raw git command against the shadow repository and returns
// its trimmed combined output.
// NOTE: the caller must serialize mutating calls; the client holds no lock.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "gitdir", c.GitDir)
	}

	full := append([]string{"--git-dir", c.GitDir, "--work-tree", c.WorkTree}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = c.WorkTree

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// output executes a git command and returns stdout verbatim. Used for
// content reads, where trimming or mixing in stderr would corrupt data.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "gitdir", c.GitDir)
	}

	full := append([]string{"--git-dir", c.GitDir, "--work-tree", c.WorkTree}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = c.WorkTree

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, stderr.String())
	}
	return string(out), nil
}

// Init initializes the shadow repository. git init is safe to re-run.
func (c *Client) Init(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "init", "--quiet", filepath.Dir(c.GitDir))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init failed: %w\nOutput: %s", err, out)
	}
	return nil
}

// ConfigGet reads a configuration value. Returns "" (no error) when the
// key is unset.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := c.Run(ctx, "config", "--get", key)
	if err != nil {
		// Exit code 1 means the key is not set.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// ConfigSet writes a configuration value.
func (c *Client) ConfigSet(ctx context.Context, key, value string) error {
	_, err := c.Run(ctx, "config", key, value)
	return err
}

// Add stages the given paths. A nil or empty list is a no-op.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := c.Run(ctx, args...)
	return err
}

// LsFiles lists tracked plus untracked-but-not-ignored paths, relative to
// the working tree. This is the candidate set the engine is willing to
// snapshot; ignored files never appear in it.
func (c *Client) LsFiles(ctx context.Context) ([]string, error) {
	out, err := c.Run(ctx, "ls-files", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Commit records a checkpoint and returns its id. Empty commits are
// allowed; they serve as explicit markers in history.
func (c *Client) Commit(ctx context.Context, msg string) (string, error) {
	if _, err := c.Run(ctx, "commit", "--allow-empty", "--no-verify", "--quiet", "-m", msg); err != nil {
		return "", err
	}
	return c.RevParse(ctx, "HEAD")
}

// RevParse resolves a revision to a full commit id.
func (c *Client) RevParse(ctx context.Context, rev string) (string, error) {
	return c.Run(ctx, "rev-parse", rev)
}

// RootCommit returns the very first commit reachable from rev.
func (c *Client) RootCommit(ctx context.Context, rev string) (string, error) {
	out, err := c.Run(ctx, "rev-list", "--max-parents=0", rev)
	if err != nil {
		return "", err
	}
	// A lane can report multiple roots after history surgery; take the oldest.
	lines := strings.Split(out, "\n")
	return lines[len(lines)-1], nil
}

// Log lists commits reachable from rev, most recent first, as
// "<id>\x00<unix>\x00<subject>" tuples.
func (c *Client) Log(ctx context.Context, rev string, limit int) ([]string, error) {
	args := []string{"log", "--format=%H%x00%ct%x00%s"}
	if limit > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", limit))
	}
	args = append(args, rev)
	out, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// ResetHard forcibly moves the current branch tip to the given commit,
// discarding uncommitted and later-committed changes.
func (c *Client) ResetHard(ctx context.Context, commit string) error {
	_, err := c.Run(ctx, "reset", "--hard", "--quiet", commit)
	return err
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// Branches lists local branch names.
func (c *Client) Branches(ctx context.Context) ([]string, error) {
	out, err := c.Run(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// BranchExists reports whether a local branch exists.
func (c *Client) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := c.Run(ctx, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateBranch creates a branch at the current HEAD position.
func (c *Client) CreateBranch(ctx context.Context, name string) error {
	_, err := c.Run(ctx, "branch", name)
	return err
}

// SwitchBranch points HEAD at the given branch without touching the
// working tree or index. The engine snapshots the live tree; a real
// checkout here would overwrite user files with lane contents.
func (c *Client) SwitchBranch(ctx context.Context, name string) error {
	_, err := c.Run(ctx, "symbolic-ref", "HEAD", "refs/heads/"+name)
	return err
}

// DiffNames lists paths that differ between two revisions, or between a
// revision and the working tree plus index when "to" is empty.
func (c *Client) DiffNames(ctx context.Context, from, to string) ([]string, error) {
	args := []string{"diff", "--name-only", from}
	if to != "" {
		args = append(args, to)
	}
	out, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// ShowFile reads a file's content at a revision. A path that does not
// exist at that revision yields "" and no error.
func (c *Client) ShowFile(ctx context.Context, rev, relPath string) (string, error) {
	out, err := c.output(ctx, "show", rev+":"+relPath)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", err
	}
	return out, nil
}
