// Package history persists lint runs in SQLite so later runs can report only
// findings that are new relative to a baseline.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"idiomlint/internal/engine/check"
	"idiomlint/internal/shared/util"
	"time"
)

// SchemaVersion is the newest migration this build understands.
const SchemaVersion = 2

// Run is one completed lint run of a project.
type Run struct {
	ID            int64
	ProjectKey    string
	SchemaVersion int
	Timestamp     time.Time
	FileCount     int
	FindingCount  int
	Findings      []Finding
}

// Finding is the stored form of a diagnostic.
type Finding struct {
	Fingerprint string
	Check       string
	Problem     string
	Path        string
	Line        int
	Column      int
	Key         string
}

// NewFinding converts a diagnostic for storage.
func NewFinding(d check.Diagnostic) Finding {
	return Finding{
		Fingerprint: Fingerprint(d),
		Check:       d.Check,
		Problem:     string(d.Problem),
		Path:        d.Position.File,
		Line:        d.Position.Line,
		Column:      d.Position.Column,
		Key:         d.Message.Key,
	}
}

// Fingerprint identifies a diagnostic across runs. Line and column are left
// out so that edits elsewhere in a file keep existing findings matched.
func Fingerprint(d check.Diagnostic) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(d.Check)
	write(d.Position.File)
	write(d.Message.Key)
	for _, k := range util.SortedKeys(d.Message.Params) {
		write(k)
		write(d.Message.Params[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
