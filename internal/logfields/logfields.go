package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeySlug        = "slug"
	KeyPage        = "page"
	KeyPath        = "path"
	KeySource      = "source"
	KeyFiles       = "files"
	KeyBytes       = "bytes"
	KeyFingerprint = "fingerprint"
	KeyOutcome     = "outcome"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Fingerprint(fp string) slog.Attr { return slog.String(KeyFingerprint, fp) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
