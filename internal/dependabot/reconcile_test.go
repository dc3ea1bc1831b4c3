package dependabot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dependabot-docker/internal/model"
)

// TestNewEntry verifies the entry builder passes the interval through
// untouched, including values Dependabot would reject.
func TestNewEntry(t *testing.T) {
	for _, interval := range []string{"weekly", "daily", "every full moon", ""} {
		t.Run(interval, func(t *testing.T) {
			e := NewEntry("b/sub", interval)
			assert.Equal(t, "b/sub", e.Directory)
			assert.Equal(t, model.EcosystemDocker, e.PackageEcosystem)
			assert.Equal(t, interval, e.Schedule.Interval)
		})
	}
}

// TestReconcile_NewDocument covers the "no existing config" scenario:
// two Dockerfiles produce a version 2 document with two entries.
func TestReconcile_NewDocument(t *testing.T) {
	doc := New()
	added, err := Reconcile(doc, model.NewDirSet("b/sub", "a"), "weekly")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b/sub"}, added)

	_, cfg := render(t, doc)
	assert.Equal(t, 2, cfg.Version)
	require.Len(t, cfg.Updates, 2)
	assert.Equal(t, decodedEntry{
		PackageEcosystem: "docker",
		Directory:        "a",
		Schedule:         map[string]string{"interval": "weekly"},
	}, cfg.Updates[0])
	assert.Equal(t, decodedEntry{
		PackageEcosystem: "docker",
		Directory:        "b/sub",
		Schedule:         map[string]string{"interval": "weekly"},
	}, cfg.Updates[1])
}

// TestReconcile_ExistingEntry covers the scenario where "a" is already
// configured and "c" is new: only "c" is added and "a" is not duplicated.
func TestReconcile_ExistingEntry(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: docker
    directory: a
    schedule:
      interval: monthly
`)
	added, err := Reconcile(doc, model.NewDirSet("a", "c"), "weekly")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, added)

	_, cfg := render(t, doc)
	require.Len(t, cfg.Updates, 2)
	assert.Equal(t, "a", cfg.Updates[0].Directory)
	assert.Equal(t, "monthly", cfg.Updates[0].Schedule["interval"], "existing entry must be untouched")
	assert.Equal(t, "c", cfg.Updates[1].Directory)
	assert.Equal(t, "weekly", cfg.Updates[1].Schedule["interval"])
}

// TestReconcile_Idempotent verifies that a second run over the same tree
// adds nothing and leaves the document byte-for-byte identical.
func TestReconcile_Idempotent(t *testing.T) {
	dirs := model.NewDirSet("a", "b/sub", ".")

	doc := New()
	added, err := Reconcile(doc, dirs, "weekly")
	require.NoError(t, err)
	assert.Len(t, added, 3)
	first, err := doc.Bytes()
	require.NoError(t, err)

	again := mustParse(t, string(first))
	added, err = Reconcile(again, dirs, "weekly")
	require.NoError(t, err)
	assert.Empty(t, added)
	second, err := again.Bytes()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

// TestReconcile_PreservesOtherEcosystems verifies that entries for other
// ecosystems keep their content and relative order, and that new entries
// go to the end rather than into sorted position.
func TestReconcile_PreservesOtherEcosystems(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: npm
    directory: /web
    schedule:
      interval: daily
  - package-ecosystem: docker
    directory: z
    schedule:
      interval: weekly
  - package-ecosystem: gomod
    directory: /
    schedule:
      interval: weekly
    open-pull-requests-limit: 5
`)
	added, err := Reconcile(doc, model.NewDirSet("a", "z"), "daily")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, added)

	out, cfg := render(t, doc)
	require.Len(t, cfg.Updates, 4)
	assert.Equal(t, "npm", cfg.Updates[0].PackageEcosystem)
	assert.Equal(t, "/web", cfg.Updates[0].Directory)
	assert.Equal(t, "docker", cfg.Updates[1].PackageEcosystem)
	assert.Equal(t, "z", cfg.Updates[1].Directory)
	assert.Equal(t, "gomod", cfg.Updates[2].PackageEcosystem)
	assert.Equal(t, "a", cfg.Updates[3].Directory)
	assert.Contains(t, out, "open-pull-requests-limit: 5")
}

// TestReconcile_OtherEcosystemDoesNotBlock verifies that an entry for the
// same directory under another ecosystem does not count as configured.
func TestReconcile_OtherEcosystemDoesNotBlock(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: gomod
    directory: a
    schedule:
      interval: weekly
`)
	added, err := Reconcile(doc, model.NewDirSet("a"), "weekly")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, added)
	assert.Equal(t, 2, doc.Len())
}

// TestReconcile_LeadingSlash verifies that "/a" in an existing entry
// matches the discovered directory "a", and "/" matches ".".
func TestReconcile_LeadingSlash(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: docker
    directory: /a
    schedule:
      interval: weekly
  - package-ecosystem: docker
    directory: /
    schedule:
      interval: weekly
`)
	added, err := Reconcile(doc, model.NewDirSet("a", "."), "weekly")
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 2, doc.Len())
}

// TestReconcile_NonStringDirectory verifies that a non-string directory
// never counts as a match, so the discovered directory still gets an entry.
func TestReconcile_NonStringDirectory(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: docker
    directory: 2024
    schedule:
      interval: weekly
`)
	added, err := Reconcile(doc, model.NewDirSet("2024"), "weekly")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024"}, added)

	_, cfg := render(t, doc)
	require.Len(t, cfg.Updates, 2)
	assert.Equal(t, 2024, cfg.Updates[0].Directory)
	assert.Equal(t, "2024", cfg.Updates[1].Directory, "new entry must be written as a string")
}

// TestReconcile_EmptyDiscovered verifies that an empty set changes nothing.
func TestReconcile_EmptyDiscovered(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: docker
    directory: a
    schedule:
      interval: weekly
`)
	added, err := Reconcile(doc, model.NewDirSet(), "weekly")
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 1, doc.Len())
}

// TestReconcile_EntriesAreNotShared verifies that each appended entry is
// an independent node.
func TestReconcile_EntriesAreNotShared(t *testing.T) {
	doc := New()
	_, err := Reconcile(doc, model.NewDirSet("a", "b"), "weekly")
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())

	first := doc.updates.Content[0]
	second := doc.updates.Content[1]
	assert.NotSame(t, first, second)

	// Mutating the first entry's schedule must not leak into the second.
	lookup(lookup(first, "schedule"), "interval").Value = "daily"
	assert.Equal(t, "weekly", lookup(lookup(second, "schedule"), "interval").Value)
}

// TestMissing verifies Missing does not modify the document.
func TestMissing(t *testing.T) {
	doc := mustParse(t, `version: 2
updates:
  - package-ecosystem: docker
    directory: a
    schedule:
      interval: weekly
`)
	discovered := model.NewDirSet("a", "b")
	assert.Equal(t, []string{"b"}, Missing(doc, discovered))
	assert.Equal(t, 1, doc.Len())
	assert.Equal(t, []string{"a", "b"}, discovered.Sorted(), "discovered set must not be modified")

	assert.Empty(t, Missing(doc, model.NewDirSet("a")))
}
