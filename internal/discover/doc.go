// Package discover finds the directories of a source tree that contain a
// Dockerfile.
//
// The walk is read-only and honours the same exclusions a developer sees
// in their working copy:
//   - any directory named "vendor" is pruned, together with everything below it
//   - the ".git" directory is never entered
//   - paths ignored by .gitignore files or .git/info/exclude are skipped
//
// Ignore rules are parsed with go-git's plumbing/format/gitignore package,
// read through a go-billy OS filesystem rooted at the scan root. No git
// binary is required, and the tree does not even have to be a repository:
// .gitignore files are honoured on their own.
package discover
