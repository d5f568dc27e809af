// Package vcs provides a VCSMaterializer adapter that shells out to git.
package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
)

// Materializer implements usecases.VCSMaterializer by shelling out to git
// rev-parse and git archive against projectRoot's repository.
type Materializer struct {
	gitPath string
}

// NewMaterializer creates a Materializer, resolving git from PATH.
func NewMaterializer() *Materializer {
	gitPath, _ := exec.LookPath("git")
	return &Materializer{gitPath: gitPath}
}

// Materialize checks out projectRoot's contents as of ref into a scratch
// directory via `git archive`, piped through `tar` to extract. ref == ""
// returns projectRoot unmodified with a no-op cleanup.
func (m *Materializer) Materialize(ctx context.Context, projectRoot, ref string) (string, func(), error) {
	if ref == "" {
		return projectRoot, func() {}, nil
	}

	if m.gitPath == "" {
		return "", nil, &entities.VcsUnavailableError{Reason: "git not found on PATH"}
	}

	if err := m.checkRepo(ctx, projectRoot); err != nil {
		return "", nil, err
	}
	if err := m.checkRevision(ctx, projectRoot, ref); err != nil {
		return "", nil, err
	}

	scratch, err := os.MkdirTemp("", "dbt-lineage-vcs-*")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	archive := exec.CommandContext(ctx, m.gitPath, "archive", ref)
	archive.Dir = projectRoot
	extract := exec.CommandContext(ctx, "tar", "-x", "-C", scratch)

	pipe, err := archive.StdoutPipe()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("pipe git archive: %w", err)
	}
	extract.Stdin = pipe

	if err := extract.Start(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("start tar extract: %w", err)
	}
	if err := archive.Run(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("git archive %s: %w", ref, err)
	}
	if err := extract.Wait(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("tar extract: %w", err)
	}

	return filepath.Clean(scratch), cleanup, nil
}

func (m *Materializer) checkRepo(ctx context.Context, projectRoot string) error {
	cmd := exec.CommandContext(ctx, m.gitPath, "rev-parse", "--is-inside-work-tree")
	cmd.Dir = projectRoot
	if err := cmd.Run(); err != nil {
		return &entities.VcsUnavailableError{Reason: fmt.Sprintf("%s is not a git repository", projectRoot)}
	}
	return nil
}

func (m *Materializer) checkRevision(ctx context.Context, projectRoot, ref string) error {
	cmd := exec.CommandContext(ctx, m.gitPath, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	cmd.Dir = projectRoot
	var out strings.Builder
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return &entities.RevisionNotFoundError{Revision: ref}
	}
	return nil
}
