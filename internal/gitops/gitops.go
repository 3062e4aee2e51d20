// Package gitops records run outputs in the project's git history.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies the committer of run outputs.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(ctx context.Context, dir, message string, author Author) (string, error) {
	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}
	return commit(ctx, dir, message, author)
}

// CommitPaths stages the given paths (relative to dir) and commits them.
// It returns an empty hash and no error when nothing changed.
func CommitPaths(ctx context.Context, dir string, paths []string, message string, author Author) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := git(ctx, dir, args...); err != nil {
		return "", err
	}

	staged, err := git(ctx, dir, append([]string{"diff", "--cached", "--name-only", "--"}, paths...)...)
	if err != nil {
		return "", err
	}
	if staged == "" {
		return "", nil
	}
	return commit(ctx, dir, message, author, paths...)
}

func commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	args := []string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
		"commit", "-m", message, "--author", author.String(),
	}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	if _, err := git(ctx, dir, args...); err != nil {
		return "", err
	}
	return git(ctx, dir, "rev-parse", "--short", "HEAD")
}
