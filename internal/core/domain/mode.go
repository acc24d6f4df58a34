package domain

// Mode selects how the reconciler treats the prior lockfile during a
// resolution run.
type Mode string

const (
	// ModeInstall reuses lockfile pins whose spec is structurally unchanged
	// and resolves everything else fresh. The default for install/add/remove.
	ModeInstall Mode = "install"

	// ModeUpdate re-resolves every ref, ignoring prior pins.
	ModeUpdate Mode = "update"

	// ModeFrozen trusts the lockfile exclusively and performs no ref
	// resolution at all; a manifest entry without a matching pin is an error.
	ModeFrozen Mode = "frozen"
)
