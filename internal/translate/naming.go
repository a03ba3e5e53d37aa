package translate

import (
	"regexp"
	"strings"
)

// RepositorySuffix is appended to an institution name to form the name of
// its default repository.
const RepositorySuffix = "-repository"

var nonSlugRun = regexp.MustCompile(`[^a-z0-9_-]+`)

// DeriveRepositoryID returns the backend collection id for a legacy
// repository. The legacy portal lets an institution act as its own
// repository, but the backend forbids an organization and its collection
// sharing a name, so that case gets the suffix.
func DeriveRepositoryID(institution, repository string) string {
	if repository == institution {
		return institution + RepositorySuffix
	}
	return repository
}

// Slugify lower-cases title and collapses every run of characters outside
// [a-z0-9_-] into a single "-".
func Slugify(title string) string {
	return nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
}
