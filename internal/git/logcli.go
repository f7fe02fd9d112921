package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIOptions configures the git CLI record source.
type CLIOptions struct {
	RepoPath string
	// Command is a full custom shell command replacing the assembled
	// git log invocation. When set, Since, Until and Range are ignored
	// and the command output must match the record format.
	Command string
	Format  string // pretty format, DefaultFormat when empty
	Since   string // passed to git log --since verbatim
	Until   string // passed to git log --until verbatim
	Range   string // extra git log arguments, DefaultRange when empty
}

// CLISource reads records by running git log.
type CLISource struct {
	opts CLIOptions
}

// NewCLISource creates a git CLI record source.
func NewCLISource(opts CLIOptions) *CLISource {
	return &CLISource{opts: opts}
}

var _ Source = (*CLISource)(nil)

// Read runs the log command and returns its full output.
func (s *CLISource) Read(ctx context.Context) (string, error) {
	var cmd *exec.Cmd
	if s.opts.Command != "" {
		cmd = exec.CommandContext(ctx, "sh", "-c", s.opts.Command)
		if s.opts.RepoPath != "" {
			cmd.Dir = s.opts.RepoPath
		}
	} else {
		cmd = exec.CommandContext(ctx, "git", s.args()...)
	}

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// args assembles the git log argument list from the options.
func (s *CLISource) args() []string {
	format := s.opts.Format
	if format == "" {
		format = DefaultFormat
	}

	args := []string{}
	if s.opts.RepoPath != "" {
		args = append(args, "-C", s.opts.RepoPath)
	}
	args = append(args, "log", "--no-color", "--format="+format)

	if s.opts.Since != "" {
		args = append(args, "--since="+s.opts.Since)
	}
	if s.opts.Until != "" {
		args = append(args, "--until="+s.opts.Until)
	}

	rng := s.opts.Range
	if rng == "" {
		rng = DefaultRange
	}
	args = append(args, strings.Fields(rng)...)
	return args
}
