package dependabot

import (
	"log/slog"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// Missing returns the discovered directories that have no Docker entry in
// doc yet, in sorted order. Neither doc nor discovered is modified.
func Missing(doc *Document, discovered model.DirSet) []string {
	configured := doc.ConfiguredDirs(model.EcosystemDocker)

	missing := discovered.Clone()
	for _, dir := range discovered.Sorted() {
		if configured.Has(model.NormalizeDir(dir)) {
			missing.Remove(dir)
		}
	}
	return missing.Sorted()
}

// Reconcile appends one Docker entry with the given interval for every
// discovered directory that is not configured yet, and returns the
// directories it added. Existing entries are left untouched, so running
// Reconcile again with the same input adds nothing.
func Reconcile(doc *Document, discovered model.DirSet, interval string) ([]string, error) {
	missing := Missing(doc, discovered)
	for _, dir := range missing {
		entry := NewEntry(dir, interval)
		if err := doc.Append(entry); err != nil {
			return nil, err
		}
		slog.Debug("appended update entry", "entry", entry.String(), "interval", interval)
	}
	return missing, nil
}
