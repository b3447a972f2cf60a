// Package git detects the repository a session runs in so sessions can be
// tagged with the current branch.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/xvierd/tempo/internal/ports"
)

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	dir string
}

// NewDetector creates a detector rooted at dir. An empty dir means the
// current working directory.
func NewDetector(dir string) *Detector {
	return &Detector{dir: dir}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository containing workingDir and reports its HEAD.
// A detached HEAD yields an empty branch.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	repo, err := d.open(workingDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info := &ports.GitInfo{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = extractRepoName(urls[0])
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}
	info.IsClean = status.IsClean()

	return info, nil
}

// IsAvailable reports whether the detector's directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	_, err := d.open("")
	return err == nil
}

func (d *Detector) open(workingDir string) (*git.Repository, error) {
	dir := workingDir
	if dir == "" {
		dir = d.dir
	}
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("git repository not found in %s: %w", dir, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return repo, nil
}

// extractRepoName turns a remote URL into "owner/repo".
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// git@github.com:user/repo
	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	// https://github.com/user/repo
	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}
