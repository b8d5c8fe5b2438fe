package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
	"git.home.luguber.info/inful/docvm/internal/logfields"
	"git.home.luguber.info/inful/docvm/internal/runtimemodule"
)

// ModulesDir is the subdirectory of the runtime directory emitted modules live in.
const ModulesDir = "modules"

// ModuleFile returns the file name a runtime module is emitted as.
func ModuleFile(id string) string {
	return id + ".js"
}

// Emitter writes runtime modules to disk as one file per identifier. The
// whole directory is replaced at once: files are staged in a sibling
// directory which is then renamed into place.
type Emitter struct{}

// Register implements runtimemodule.Registrar. Modules are written to
// root/modules.
func (Emitter) Register(modules runtimemodule.SourceMap, root string) error {
	if root == "" {
		return errors.ValidationError("runtime directory is not set").Build()
	}
	dir, err := WriteModules(filepath.Join(root, ModulesDir), modules)
	if err != nil {
		return err
	}
	slog.Debug("Emitted runtime modules", logfields.Path(dir), logfields.Modules(len(modules)))
	return nil
}

// WriteModules replaces dir with one file per module and returns dir.
func WriteModules(dir string, modules map[string]string) (string, error) {
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fsError(err, "failed to create runtime directory", parent)
	}
	stage, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+"-stage-")
	if err != nil {
		return "", fsError(err, "failed to create staging directory", parent)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if id == "" || filepath.Base(id) != id {
			return "", errors.ValidationError(fmt.Sprintf("module id %q cannot be used as a file name", id)).
				WithContext("module_id", id).Build()
		}
		if err := os.WriteFile(filepath.Join(stage, ModuleFile(id)), []byte(modules[id]), 0o600); err != nil {
			return "", fsError(err, "failed to write runtime module", id)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fsError(err, "failed to replace runtime modules", dir)
	}
	if err := os.Rename(stage, dir); err != nil {
		return "", fsError(err, "failed to move runtime modules into place", dir)
	}
	return dir, nil
}

func fsError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).WithContext("path", path).Build()
}
