// Package dbtrun shells out to dbt (optionally via uv) to run or test a
// selected scope, streaming output and refreshing node run status from
// target/run_results.json afterward.
package dbtrun

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

// cancelGrace is how long a cancelled subprocess is given to exit after
// SIGINT before it is escalated to SIGTERM.
const cancelGrace = 2 * time.Second

// Orchestrator is the concrete RunOrchestrator (C12).
type Orchestrator struct {
	manifest usecases.ManifestLoader
}

// NewOrchestrator returns a ready-to-use Orchestrator. manifest is used by
// RefreshRunStatus to re-read target/run_results.json.
func NewOrchestrator(manifest usecases.ManifestLoader) *Orchestrator {
	return &Orchestrator{manifest: manifest}
}

// DetectRunner implements RunOrchestrator. Precedence: a uv-managed project
// (uv.lock or pyproject.toml present) with uv on PATH runs `uv run dbt`;
// otherwise dbt on PATH wins directly; otherwise uv on PATH still works
// via `uv run dbt`; otherwise no runner is available.
func (o *Orchestrator) DetectRunner(projectRoot string) (usecases.RunnerCommand, error) {
	uvPath, uvErr := exec.LookPath("uv")
	isUvProject := fileExists(filepath.Join(projectRoot, "uv.lock")) || fileExists(filepath.Join(projectRoot, "pyproject.toml"))

	if isUvProject && uvErr == nil {
		return usecases.RunnerCommand{Command: uvPath, Args: []string{"run", "dbt"}}, nil
	}
	if dbtPath, err := exec.LookPath("dbt"); err == nil {
		return usecases.RunnerCommand{Command: dbtPath}, nil
	}
	if uvErr == nil {
		return usecases.RunnerCommand{Command: uvPath, Args: []string{"run", "dbt"}}, nil
	}
	return usecases.RunnerCommand{}, &entities.RunnerNotFoundError{ProjectRoot: projectRoot}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Run implements RunOrchestrator. It spawns `<runner> run -s <scope>` (or
// `test` for RunTest), streaming stdout lines until the process exits; on
// ctx cancellation the subprocess receives SIGINT, then SIGTERM after a
// 2-second grace if it has not exited.
func (o *Orchestrator) Run(ctx context.Context, runner usecases.RunnerCommand, action usecases.RunAction, scope string) (<-chan string, <-chan error) {
	lines := make(chan string, 32)
	errs := make(chan error, 1)

	args := append([]string{}, runner.Args...)
	args = append(args, string(action))
	if scope != "" {
		args = append(args, "-s", scope)
	}

	cmd := exec.Command(runner.Command, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		errs <- err
		close(lines)
		close(errs)
		return lines, errs
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		errs <- err
		close(lines)
		close(errs)
		return lines, errs
	}

	done := make(chan struct{})
	go o.watchCancel(ctx, cmd, done)

	go func() {
		defer close(lines)
		defer close(errs)
		defer close(done)

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		lines <- ""

		waitErr := cmd.Wait()
		if waitErr == nil {
			return
		}
		exitCode := -1
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		errs <- &entities.SubprocessFailedError{
			Command:  runner.Command,
			Args:     args,
			ExitCode: exitCode,
		}
	}()

	return lines, errs
}

// watchCancel sends SIGINT to the process group on ctx cancellation,
// escalating to SIGTERM after cancelGrace if the process is still running.
func (o *Orchestrator) watchCancel(ctx context.Context, cmd *exec.Cmd, done chan struct{}) {
	select {
	case <-ctx.Done():
	case <-done:
		return
	}

	if cmd.Process == nil {
		return
	}
	// Setpgid makes the child its own group leader, so -pid names the group.
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGINT)

	select {
	case <-time.After(cancelGrace):
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	case <-done:
	}
}

// RefreshRunStatus implements RunOrchestrator.
func (o *Orchestrator) RefreshRunStatus(ctx context.Context, g *entities.Graph, projectRoot string) error {
	path := filepath.Join(projectRoot, "target", "run_results.json")
	statuses, err := o.manifest.LoadRunResults(ctx, path)
	if err != nil {
		return err
	}
	for id, status := range statuses {
		if node, ok := g.GetNode(id); ok {
			node.SetRunStatus(status)
		}
	}
	return nil
}
