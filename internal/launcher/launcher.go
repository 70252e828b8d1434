// Package launcher resumes a session by handing the terminal over
// to the assistant command inside the session's project directory.
// The picker exits its alternate screen first; the actual exec
// happens here, after the TUI has released the terminal.
package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/arvessen/ccsessions/internal/session"
)

// Argv builds the resume command line. command comes from the
// config and may carry flags or quoted arguments, e.g.
// `claude --mcp-config "a b.json"`.
func Argv(rec session.Record, fork bool, command string) ([]string, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parsing resume command %q: %w", command, err)
	}
	if len(argv) == 0 {
		argv = []string{"claude"}
	}

	argv = append(argv, "-r", rec.ID)
	if fork {
		argv = append(argv, "--fork-session")
	}
	return argv, nil
}

// WorkDir picks the directory to resume in. Sessions mirrored from
// a remote usually have no local checkout, which is an error rather
// than a silent resume in the wrong place.
func WorkDir(rec session.Record) (string, error) {
	if rec.ProjectPath == "" {
		return "", fmt.Errorf("session %s has no recorded project path", rec.ID)
	}
	info, err := os.Stat(rec.ProjectPath)
	if err != nil || !info.IsDir() {
		if rec.Source != session.SourceLocal {
			return "", fmt.Errorf(
				"project directory %q does not exist locally (session synced from %q)",
				rec.ProjectPath, rec.Source)
		}
		return "", fmt.Errorf("project directory %q does not exist", rec.ProjectPath)
	}
	return rec.ProjectPath, nil
}

// Exec replaces the foreground work with the assistant process,
// attached to the caller's terminal. Returns once the assistant
// exits.
func Exec(rec session.Record, fork bool, command string) error {
	argv, err := Argv(rec, fork, command)
	if err != nil {
		return err
	}
	dir, err := WorkDir(rec)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"session": rec.ID,
		"dir":     dir,
		"fork":    fork,
	}).Debug("launching assistant")

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}
