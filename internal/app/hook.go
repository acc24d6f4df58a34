package app

// hookScript is the Nushell snippet that swaps a project's module directory
// in and out of NU_LIB_DIRS as the shell changes directories.
const hookScript = `# nuance auto-activate hook - add this to your config.nu (or env.nu)
$env.config.hooks.env_change.PWD = (
    $env.config.hooks.env_change.PWD | default [] | append {|before, after|
        # Remove previous directory's modules if it was a nuance project
        if ($before | path join "mod.toml" | path exists) {
            let old_modules = ($before | path join ".nu_modules")
            $env.NU_LIB_DIRS = ($env.NU_LIB_DIRS | default [] | where { |it| $it != $old_modules })
        }
        # Add new directory's modules if it is a nuance project
        if ($after | path join "mod.toml" | path exists) {
            let new_modules = ($after | path join ".nu_modules")
            if ($new_modules | path exists) and ($new_modules not-in ($env.NU_LIB_DIRS | default [])) {
                $env.NU_LIB_DIRS = ($env.NU_LIB_DIRS | default [] | append $new_modules)
            }
        }
    }
)
`

// HookScript returns the shell integration snippet printed by the hook command.
func (a *App) HookScript() string {
	return hookScript
}
