package parse

import (
	"regexp"
	"time"
)

// Commit represents one parsed commit record.
type Commit struct {
	Hash     string
	Parents  []string
	Branches []string
	Tags     []string
	When     time.Time
	Subject  string
	Body     string
	Vars     map[string]string
}

// HasRefs returns true if the commit carries any branch or tag decoration.
func (c *Commit) HasRefs() bool {
	return len(c.Branches) > 0 || len(c.Tags) > 0
}

// Variable is a compiled user-defined variable extractor. The first
// capture group of Pattern becomes the variable value.
type Variable struct {
	Name    string
	Pattern *regexp.Regexp
}

// Field names recognized in a record template. Any other name is a
// free-form placeholder whose content is carried along but not
// interpreted.
const (
	FieldHash    = "hash"
	FieldParents = "parents"
	FieldRefs    = "refs"
	FieldDate    = "date"
	FieldSubject = "subject"
)

// DefaultFields is the field template matching the default git log
// pretty format |Record:|%h|%p|%d|%cI|%s.
func DefaultFields() []string {
	return []string{FieldHash, FieldParents, FieldRefs, FieldDate, FieldSubject}
}
