// Package git provides the commit record sources for the pipeline:
// a git CLI log runner, a keep-file reader for captured output, and a
// go-git native reader that synthesizes identical record text.
package git

import "context"

// Source yields the full commit-record text for one pipeline run.
// All implementations return complete output; parsing happens
// downstream.
type Source interface {
	Read(ctx context.Context) (string, error)
}

// DefaultFormat is the git log pretty format producing the record
// layout the default parser template expects: marker, abbreviated
// hash, parent hashes, ref decoration, strict ISO committer date,
// subject, then the body on following lines.
const DefaultFormat = "|Record:|%h|%p|%d|%cI|%s%n%b"

// DefaultRange is the extra git log argument set used when the caller
// does not override it.
const DefaultRange = "--all --topo-order"
