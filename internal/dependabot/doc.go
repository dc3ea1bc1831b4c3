// Package dependabot loads, reconciles and writes the Dependabot
// configuration file (.github/dependabot.yml).
//
// The document is kept as a gopkg.in/yaml.v3 node tree rather than being
// decoded into structs. This preserves everything the tool does not own:
// comments, key order, entries for other ecosystems and any keys Dependabot
// adds in the future. Reconciliation only ever appends to the `updates`
// sequence; existing nodes are never removed, reordered or rewritten.
//
// Serialization forces block style on every collection, encodes with an
// indent of two spaces and normalises the result with the yamlfmt basic
// formatter, so repeated runs produce byte-identical output.
package dependabot
