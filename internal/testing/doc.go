// Package testing contains fixtures and assertions shared by package tests:
// throwaway project trees with content documents, and checks against the
// generated output tree.
package testing

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
