package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedVersions is the range of manifest versions this client understands.
const SupportedVersions = ">= 0.3.0, < 1.0.0"

// CheckVersion reports whether the manifest's declared version satisfies
// constraint. A manifest without a version always passes.
func CheckVersion(a *Analysis, constraint string) error {
	if a == nil || a.Version == "" {
		return nil
	}

	v, err := semver.NewVersion(a.Version)
	if err != nil {
		return fmt.Errorf("parsing manifest version %q: %w", a.Version, err)
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}

	if !c.Check(v) {
		return fmt.Errorf("manifest version %s does not satisfy %s", v, constraint)
	}
	return nil
}
