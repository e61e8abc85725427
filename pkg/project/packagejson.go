package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type packageJSON struct {
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// typeScriptVersion finds the TypeScript version a project builds with:
// the installed node_modules/typescript wins over the declared range in
// package.json, whose lower bound is used. It returns nil when neither
// names a usable version.
func typeScriptVersion(root string) (*semver.Version, error) {
	installed, err := readPackageJSON(filepath.Join(root, "node_modules", "typescript", "package.json"))
	if err != nil {
		return nil, err
	}
	if installed != nil {
		if v, err := semver.NewVersion(installed.Version); err == nil {
			return v, nil
		}
	}

	pkg, err := readPackageJSON(filepath.Join(root, "package.json"))
	if err != nil || pkg == nil {
		return nil, err
	}
	for _, deps := range []map[string]string{
		pkg.DevDependencies, pkg.Dependencies, pkg.PeerDependencies, pkg.OptionalDependencies,
	} {
		if spec, ok := deps["typescript"]; ok {
			return lowerBound(spec), nil
		}
	}
	return nil, nil
}

func readPackageJSON(path string) (*packageJSON, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pkg, nil
}

// lowerBound extracts the smallest version a dependency range admits:
// "^4.9.5" gives 4.9.5, ">=3.7 <5" gives 3.7.0. Tags, URLs and wildcards
// give nil.
func lowerBound(spec string) *semver.Version {
	spec = strings.TrimSpace(spec)
	if alt, _, ok := strings.Cut(spec, "||"); ok {
		spec = strings.TrimSpace(alt)
	}
	spec = strings.TrimLeft(spec, "^~>=v ")
	if first, _, ok := strings.Cut(spec, " "); ok {
		spec = first
	}
	if spec == "" || strings.ContainsAny(spec, "*xX:/") {
		return nil
	}
	v, err := semver.NewVersion(spec)
	if err != nil {
		return nil
	}
	return v
}
