package dot

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/gitdot-go/internal/graph"
)

// buildLabel renders the pipe-delimited label template for one node.
// Each template field may mix literal text, git-style placeholders and
// @VAR@ names; every rendered field is word-wrapped to width and the
// resulting lines are joined with the DOT line-break escape.
func buildLabel(n *graph.CommitNode, format string, width int, now time.Time) string {
	if format == "" {
		return ""
	}
	var lines []string
	for _, field := range strings.Split(format, "|") {
		rendered := expandField(n, field, now)
		if rendered == "" {
			continue
		}
		lines = append(lines, wrap(rendered, width)...)
	}
	return escapeLabel(strings.Join(lines, "\\n"))
}

// expandField substitutes placeholders in a single label field.
// Squash nodes substitute their span id and collapsed count.
func expandField(n *graph.CommitNode, field string, now time.Time) string {
	hash := n.Commit.Hash
	subject := n.Commit.Subject
	if n.Kind == graph.KindSquash {
		subject = fmt.Sprintf("%d squashed commits", n.Count)
	}

	r := strings.NewReplacer(
		"%H", hash,
		"%h", shortHash(hash),
		"%s", subject,
		"%ci", n.Commit.When.Format("2006-01-02 15:04:05 -0700"),
		"%cI", n.Commit.When.Format(time.RFC3339),
		"%cr", relativeDate(n.Commit.When, now),
	)
	field = r.Replace(field)

	for name, val := range n.Commit.Vars {
		field = strings.ReplaceAll(field, name, val)
	}
	return strings.TrimSpace(field)
}

func shortHash(hash string) string {
	// Squash spans like "abc..def" keep both halves short.
	if first, last, ok := strings.Cut(hash, ".."); ok {
		return shortHash(first) + ".." + shortHash(last)
	}
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// wrap breaks text into lines of at most width runes at word
// boundaries. Tokens longer than width stay whole; wrapping never
// splits mid-token. A width of zero or less disables wrapping.
func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// relativeDate formats when against now the way git's %cr does,
// coarsely: the largest whole unit.
func relativeDate(when, now time.Time) string {
	d := now.Sub(when)
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 14*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 60*24*time.Hour:
		return plural(int(d.Hours()/(24*7)), "week")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/(24*30)), "month")
	default:
		return plural(int(d.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
