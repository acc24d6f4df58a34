package domain

import "path/filepath"

const (
	// ManifestFileName is the name of the project manifest.
	ManifestFileName = "mod.toml"

	// LockFileName is the name of the project lockfile.
	LockFileName = "mod.lock"

	// EntryFileName is the module entry point created by init.
	EntryFileName = "mod.nu"

	// ModulesDirName is the project-local directory dependencies are installed into.
	ModulesDirName = ".nu_modules"

	// ActivationFileName is the generated activation script.
	ActivationFileName = "activate.nu"

	// PinFileName is the marker file recording the commit a module directory
	// was materialized from. A matching pin lets installs skip the copy.
	PinFileName = ".nuance-pin"

	// AppDirName is the directory used under the user config and cache roots.
	AppDirName = "nuance"

	// ContentDirName is the content cache directory under the cache root.
	ContentDirName = "content"

	// GlobalConfigFileName is the global configuration file.
	GlobalConfigFileName = "config.toml"

	// GlobalLockFileName is the lockfile for globally installed modules.
	GlobalLockFileName = "config.lock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ManifestPath returns the manifest path inside a project directory.
func ManifestPath(projectDir string) string {
	return filepath.Join(projectDir, ManifestFileName)
}

// LockfilePath returns the lockfile path inside a project directory.
func LockfilePath(projectDir string) string {
	return filepath.Join(projectDir, LockFileName)
}

// ModulesDir returns the module directory inside a project directory.
func ModulesDir(projectDir string) string {
	return filepath.Join(projectDir, ModulesDirName)
}

// DefaultGlobalModulesDir returns the directory global modules are installed
// into, under the platform config root Nushell reads vendored modules from.
func DefaultGlobalModulesDir(userConfigDir string) string {
	return filepath.Join(userConfigDir, "nushell", "vendor", "nuance_modules")
}

// GlobalConfigDir returns the global nuance configuration directory.
func GlobalConfigDir(userConfigDir string) string {
	return filepath.Join(userConfigDir, AppDirName)
}

// ContentCacheDir returns the content cache root under the user cache dir.
// The cache is shared across projects.
func ContentCacheDir(userCacheDir string) string {
	return filepath.Join(userCacheDir, AppDirName, ContentDirName)
}
