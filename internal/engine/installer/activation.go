package installer

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/nuance/internal/core/domain"
	"go.trai.ch/zerr"
)

const activationHeader = `# This file is generated automatically. Do not edit.
#
# Source it from your Nushell configuration to put the installed modules on
# the module search path and bring them into scope:
#
#     source .nu_modules/activate.nu
`

// writeActivation regenerates the activation script from the graph. Content
// is a pure function of the graph's topological order, so the same lockfile
// always yields a byte-identical script regardless of fetch timing.
func writeActivation(graph *domain.Graph, modulesDir string) error {
	var b strings.Builder
	b.WriteString(activationHeader)
	b.WriteString("\nexport-env {\n")
	b.WriteString("    $env.NU_LIB_DIRS = ($env.NU_LIB_DIRS? | default [] | prepend $env.FILE_PWD)\n")
	b.WriteString("}\n")

	names := graph.TopologicalOrder()
	if len(names) > 0 {
		b.WriteString("\n")
		for _, name := range names {
			b.WriteString("export use " + name + "/\n")
		}
	}

	path := filepath.Join(modulesDir, domain.ActivationFileName)
	if err := writeFileAtomic(path, []byte(b.String())); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrActivationWriteFailed, err.Error()), "path", path)
	}
	return nil
}

// writeFileAtomic writes via a temporary sibling and rename, so a crashed run
// never leaves a half-written activation script behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
