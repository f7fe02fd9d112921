package cmd

import (
	"errors"

	"github.com/urfave/cli/v2"

	gitsrc "github.com/masmgr/gitdot-go/internal/git"
	"github.com/masmgr/gitdot-go/internal/output"
)

// KeepCmd returns the keep command: capture the log command output to
// a file for later re-rendering with different display options.
func KeepCmd() *cli.Command {
	return &cli.Command{
		Name:      "keep",
		Usage:     "Capture the git log record output to a file",
		ArgsUsage: "KEEP_FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "gitcmd",
				Aliases: []string{"g"},
				Usage:   "Custom log command replacing the assembled git log invocation",
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "Only consider commits since this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Only consider commits until this date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "git-range",
				Usage: "Extra git log arguments (default: --all --topo-order)",
			},
		},
		Action: keepAction,
	}
}

func keepAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one KEEP_FILE argument")
	}

	src := gitsrc.NewCLISource(gitsrc.CLIOptions{
		RepoPath: c.String("repo"),
		Command:  c.String("gitcmd"),
		Since:    c.String("since"),
		Until:    c.String("until"),
		Range:    c.String("git-range"),
	})
	text, err := src.Read(c.Context)
	if err != nil {
		return err
	}
	return output.WriteFileAtomic(c.Args().Get(0), []byte(text), 0o644)
}
