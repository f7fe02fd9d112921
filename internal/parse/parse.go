// Package parse turns the delimited record output of a git log command
// into typed commit values.
package parse

import (
	"fmt"
	"strings"
	"time"
)

// ParseError reports a malformed input record.
type ParseError struct {
	Record int // zero-based record index
	Line   int // one-based line number in the input
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record %d (line %d): %s", e.Record, e.Line, e.Msg)
}

// Options configures record parsing.
type Options struct {
	Marker    string   // record marker field, e.g. "Record:"
	Delimiter string   // field delimiter, e.g. "|"
	Fields    []string // semantic field template, positional
	Variables []Variable
}

// DefaultOptions returns options matching the default git log format.
func DefaultOptions() Options {
	return Options{
		Marker:    "Record:",
		Delimiter: "|",
		Fields:    DefaultFields(),
	}
}

// Records parses the full log text into commits, newest first, in
// input order. Lines that do not start a record are appended to the
// body of the current record. Configured variables are extracted from
// subject and body, first match per name; names without a match are
// bound to the empty string.
func Records(text string, opts Options) ([]Commit, error) {
	if opts.Marker == "" || opts.Delimiter == "" || len(opts.Fields) == 0 {
		d := DefaultOptions()
		d.Variables = opts.Variables
		opts = d
	}
	marker := opts.Delimiter + opts.Marker + opts.Delimiter

	var commits []Commit
	var body []string
	flush := func() {
		if len(commits) == 0 {
			return
		}
		c := &commits[len(commits)-1]
		c.Body = strings.TrimRight(strings.Join(body, "\n"), "\n")
		bindVars(c, opts.Variables)
		body = body[:0]
	}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, marker) {
			if len(commits) > 0 && line != "" {
				body = append(body, line)
			}
			continue
		}

		flush()
		c, err := parseRecordLine(line, opts, len(commits), i+1)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	flush()

	return commits, nil
}

func parseRecordLine(line string, opts Options, record, lineno int) (Commit, error) {
	flds := strings.Split(line, opts.Delimiter)
	// flds[0] is the text before the leading delimiter, flds[1] the
	// marker itself; semantic fields start at index 2.
	if len(flds) < 2+len(opts.Fields) {
		return Commit{}, &ParseError{
			Record: record,
			Line:   lineno,
			Msg:    fmt.Sprintf("expected %d fields, got %d", len(opts.Fields), len(flds)-2),
		}
	}

	var c Commit
	for i, name := range opts.Fields {
		val := strings.TrimSpace(flds[2+i])
		switch name {
		case FieldHash:
			c.Hash = val
		case FieldParents:
			c.Parents = strings.Fields(val)
		case FieldRefs:
			c.Branches, c.Tags = parseRefs(val)
		case FieldDate:
			when, err := parseDate(val)
			if err != nil {
				return Commit{}, &ParseError{
					Record: record,
					Line:   lineno,
					Msg:    fmt.Sprintf("unrecognized date %q", val),
				}
			}
			c.When = when
		case FieldSubject:
			c.Subject = val
		}
	}
	if c.Hash == "" {
		return Commit{}, &ParseError{Record: record, Line: lineno, Msg: "empty commit hash"}
	}
	return c, nil
}

// parseRefs splits a git decoration string into branch and tag names.
// The surrounding parens are stripped, "tag: NAME" entries become
// tags, and a "HEAD -> name" marker contributes only the target name.
func parseRefs(refs string) (branches, tags []string) {
	refs = strings.TrimSpace(refs)
	if refs == "" {
		return nil, nil
	}
	if strings.HasPrefix(refs, "(") && strings.HasSuffix(refs, ")") {
		refs = refs[1 : len(refs)-1]
	}
	for _, fld := range strings.Split(refs, ",") {
		fld = strings.TrimSpace(fld)
		if fld == "" {
			continue
		}
		if name, ok := strings.CutPrefix(fld, "tag: "); ok {
			tags = append(tags, strings.TrimSpace(name))
			continue
		}
		if _, after, ok := strings.Cut(fld, " -> "); ok {
			fld = strings.TrimSpace(after)
		}
		branches = append(branches, fld)
	}
	return branches, tags
}

// dateLayouts covers %cI (strict ISO) and %ci (ISO-like) output.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func bindVars(c *Commit, vars []Variable) {
	if len(vars) == 0 {
		return
	}
	text := c.Subject + "\n" + c.Body
	c.Vars = make(map[string]string, len(vars))
	for _, v := range vars {
		c.Vars[v.Name] = ""
		if m := v.Pattern.FindStringSubmatch(text); m != nil && len(m) > 1 {
			c.Vars[v.Name] = m[1]
		}
	}
}
