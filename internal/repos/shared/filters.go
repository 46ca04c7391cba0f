package shared

// RepositoryPredicate reports whether a repository belongs to a selection.
type RepositoryPredicate func(Repository) bool

// IsFork selects repositories created as forks of another repository.
func IsFork(repository Repository) bool {
	return repository.Fork
}

// IsPublic selects repositories that are not private.
func IsPublic(repository Repository) bool {
	return !repository.Private
}

// Partition splits repositories into those matching the predicate and the remainder, preserving order.
func Partition(repositories []Repository, predicate RepositoryPredicate) ([]Repository, []Repository) {
	matching := make([]Repository, 0, len(repositories))
	remaining := make([]Repository, 0, len(repositories))
	for _, repository := range repositories {
		if predicate != nil && predicate(repository) {
			matching = append(matching, repository)
			continue
		}
		remaining = append(remaining, repository)
	}
	return matching, remaining
}

// SelectForks returns the forked repositories in enumeration order.
func SelectForks(repositories []Repository) []Repository {
	forks, _ := Partition(repositories, IsFork)
	return forks
}

// SelectPublic returns the public repositories in enumeration order.
func SelectPublic(repositories []Repository) []Repository {
	publicRepositories, _ := Partition(repositories, IsPublic)
	return publicRepositories
}
