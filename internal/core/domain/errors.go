package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestInvalid is returned when a manifest fails validation (empty
	// package name, a dependency naming zero or multiple ref kinds, ...).
	ErrManifestInvalid = zerr.New("invalid manifest")

	// ErrManifestNotFound is returned when no mod.toml exists in the project directory.
	ErrManifestNotFound = zerr.New("no mod.toml found")

	// ErrManifestExists is returned by init when the directory already has a mod.toml.
	ErrManifestExists = zerr.New("mod.toml already exists")

	// ErrDependencyExists is returned by add when the manifest already declares the dependency.
	ErrDependencyExists = zerr.New("dependency already declared")

	// ErrDependencyNotFound is returned by remove when the manifest does not declare the dependency.
	ErrDependencyNotFound = zerr.New("dependency not declared")

	// ErrInvalidSource is returned when a dependency source is neither a git URL
	// nor an owner/repo shorthand.
	ErrInvalidSource = zerr.New("invalid dependency source")

	// ErrRefNotFound is returned when the named tag, branch, or revision does not
	// exist in the remote repository.
	ErrRefNotFound = zerr.New("ref not found")

	// ErrAmbiguousRef is returned when a bare ref name matches both a tag and a
	// branch and the caller did not disambiguate by kind.
	ErrAmbiguousRef = zerr.New("ambiguous ref")

	// ErrRemoteUnreachable is returned when the remote repository cannot be
	// reached after retries (network or auth failure).
	ErrRemoteUnreachable = zerr.New("remote unreachable")

	// ErrFetchFailed is returned when fetching commit content fails. Retryable.
	ErrFetchFailed = zerr.New("fetch failed")

	// ErrContentMismatch is returned when fetched content does not correspond to
	// the requested commit.
	ErrContentMismatch = zerr.New("fetched content does not match requested commit")

	// ErrDependencyConflict is returned when two resolution paths require the same
	// package name at a different URL or commit.
	ErrDependencyConflict = zerr.New("dependency conflict")

	// ErrCyclicDependency is returned when the dependency graph contains a cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrLockfileIncomplete is returned in frozen mode when a manifest entry has
	// no matching lockfile pin.
	ErrLockfileIncomplete = zerr.New("lockfile does not satisfy manifest")

	// ErrLockfileInconsistent is returned in frozen mode when the lockfile pins
	// packages that are no longer reachable from the manifest.
	ErrLockfileInconsistent = zerr.New("lockfile references packages absent from manifest")

	// ErrLockfileInvalid is returned when a lockfile fails validation (duplicate
	// names, dangling dependency edges, malformed commit).
	ErrLockfileInvalid = zerr.New("invalid lockfile")

	// ErrManifestReadFailed is returned when the manifest cannot be read or parsed.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestWriteFailed is returned when the manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrLockfileReadFailed is returned when the lockfile cannot be read or parsed.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileWriteFailed is returned when the lockfile cannot be written.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrConfigReadFailed is returned when the global config cannot be read or parsed.
	ErrConfigReadFailed = zerr.New("failed to read global config")

	// ErrConfigWriteFailed is returned when the global config cannot be written.
	ErrConfigWriteFailed = zerr.New("failed to write global config")

	// ErrUnknownProvider is returned when default_git_provider is neither a known
	// alias nor an explicit host URL.
	ErrUnknownProvider = zerr.New("unknown git provider")

	// ErrCacheCreateFailed is returned when the content cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create content cache directory")

	// ErrInstallFailed is returned when materializing a package into the module
	// directory fails.
	ErrInstallFailed = zerr.New("failed to install package")

	// ErrActivationWriteFailed is returned when the activation script cannot be written.
	ErrActivationWriteFailed = zerr.New("failed to write activation script")
)
