package domain

import (
	"path"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// PackageStatus is the per-package outcome of an install or uninstall.
type PackageStatus string

const (
	// PackageSuccess means the package ended up in the requested state.
	PackageSuccess PackageStatus = "success"
	// PackageFailed means the installer ran but the package is still in the wrong state.
	PackageFailed PackageStatus = "failed"
	// PackageNotFound means the package was absent when it was expected to be present.
	PackageNotFound PackageStatus = "not_found"
)

// PackageSpec is a single requirement as supplied by a caller.
type PackageSpec struct {
	// Raw is passed verbatim to the installer.
	Raw string
	// Name is the canonical distribution name, used only for verification.
	Name string
}

// PackageOutcome reports what happened to one requested package.
type PackageOutcome struct {
	Package string        `json:"package"`
	Status  PackageStatus `json:"status"`
	Version string        `json:"version,omitempty"`
	Output  string        `json:"output,omitempty"`
}

var nameSeparatorRegex = regexp.MustCompile(`[-_.]+`)

// ParsePackageSpec extracts the distribution name from a requirement specifier such as
// "numpy>=1.26", "requests[socks]==2.31" or "pkg @ https://example.com/pkg.whl".
// Direct references without a name, such as wheel URLs, archive paths or local directories,
// take their name from the file or directory they point at.
func ParsePackageSpec(raw string) PackageSpec {
	trimmed := strings.TrimSpace(raw)
	name := trimmed

	if i := strings.IndexByte(name, ';'); i >= 0 {
		name = name[:i]
	}

	if isDirectReference(name) {
		name = nameFromLocation(strings.TrimSpace(name))
	} else {
		if i := strings.IndexByte(name, '@'); i >= 0 {
			name = name[:i]
		}
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		if i := strings.IndexAny(name, "=<>!~( \t"); i >= 0 {
			name = name[:i]
		}
	}

	return PackageSpec{
		Raw:  trimmed,
		Name: CanonicalPackageName(name),
	}
}

// ParsePackageSpecs parses each raw specifier, dropping blank entries.
// Specifiers starting with "-" are rejected so that they can never reach the installer as options.
func ParsePackageSpecs(raw []string) ([]PackageSpec, error) {
	specs := make([]PackageSpec, 0, len(raw))
	for _, r := range raw {
		spec := ParsePackageSpec(r)
		if strings.HasPrefix(spec.Raw, "-") {
			return nil, zerr.With(
				zerr.Wrap(ErrInvalidPackageSpec, "package specifiers must not start with '-'"),
				"package", spec.Raw,
			)
		}
		if spec.Raw == "" || spec.Name == "" {
			continue
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

var archiveExtensions = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".zip", ".tar"}

// isDirectReference reports whether s is a URL or path rather than a named requirement.
// "name @ url" is a named requirement.
func isDirectReference(s string) bool {
	s = strings.TrimSpace(s)
	if scheme := strings.Index(s, "://"); scheme >= 0 {
		at := strings.IndexByte(s, '@')
		return at < 0 || at > scheme
	}
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "~") || strings.ContainsAny(s, `/\`) {
		return true
	}
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, ".whl") {
		return true
	}
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// nameFromLocation derives a distribution name from a direct reference: the #egg= fragment,
// a wheel or sdist file name, or the last path element.
func nameFromLocation(loc string) string {
	if i := strings.Index(loc, "#egg="); i >= 0 {
		egg := loc[i+len("#egg="):]
		if j := strings.IndexByte(egg, '&'); j >= 0 {
			egg = egg[:j]
		}
		return egg
	}
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}

	base := path.Base(strings.TrimRight(strings.ReplaceAll(loc, `\`, "/"), "/"))
	lower := strings.ToLower(base)

	if strings.HasSuffix(lower, ".whl") {
		if i := strings.IndexByte(base, '-'); i > 0 {
			return base[:i]
		}
		return base[:len(base)-len(".whl")]
	}

	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return trimVersion(base[:len(base)-len(ext)])
		}
	}

	// VCS references such as git+https://host/org/repo.git@v1.
	if i := strings.IndexByte(base, '@'); i > 0 {
		base = base[:i]
	}
	return strings.TrimSuffix(base, ".git")
}

// trimVersion drops a trailing "-<version>" from an sdist stem such as "My_Pkg-2.1".
func trimVersion(stem string) string {
	for i := len(stem) - 1; i > 0; i-- {
		if stem[i] == '-' && i+1 < len(stem) && stem[i+1] >= '0' && stem[i+1] <= '9' {
			return stem[:i]
		}
	}
	return stem
}

// CanonicalPackageName normalizes a distribution name so that "Scikit_Learn" and
// "scikit-learn" compare equal.
func CanonicalPackageName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return nameSeparatorRegex.ReplaceAllString(name, "-")
}
