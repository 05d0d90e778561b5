package pip

import (
	"regexp"
	"slices"

	"go.trai.ch/warren/internal/core/domain"
)

// buildFailureSignatures match installer output that points at a missing wheel or a failed native build.
var buildFailureSignatures = []*regexp.Regexp{
	regexp.MustCompile(`(?i)failed building wheel for`),
	regexp.MustCompile(`(?i)could not build wheels for`),
	regexp.MustCompile(`(?i)failed to build`),
	regexp.MustCompile(`(?i)error: subprocess-exited-with-error`),
	regexp.MustCompile(`(?i)building wheel for .* did not run successfully`),
	regexp.MustCompile(`(?i)error: command '.*' failed`),
	regexp.MustCompile(`(?i)microsoft visual c\+\+ .* is required`),
	regexp.MustCompile(`(?i)fatal error: .*\.h: no such file`),
	regexp.MustCompile(`(?i)no matching distribution found for`),
	regexp.MustCompile(`(?i)could not find a version that satisfies the requirement`),
	regexp.MustCompile(`(?i)legacy-install-failure`),
	regexp.MustCompile(`(?i)metadata-generation-failed`),
}

// DefaultNoBinaryPackages are packages known to ship native extensions that may need a source build.
var DefaultNoBinaryPackages = []string{
	"numpy",
	"pandas",
	"scipy",
	"matplotlib",
	"scikit-learn",
	"pillow",
	"lxml",
	"psycopg2",
	"cryptography",
	"grpcio",
	"pyyaml",
	"h5py",
	"pyarrow",
	"tokenizers",
	"shapely",
	"gevent",
}

// IsBuildFailure reports whether output matches a native build failure signature.
func IsBuildFailure(output string) bool {
	for _, sig := range buildFailureSignatures {
		if sig.MatchString(output) {
			return true
		}
	}
	return false
}

func eligibleSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(DefaultNoBinaryPackages)+len(extra))
	for _, name := range slices.Concat(DefaultNoBinaryPackages, extra) {
		if canonical := domain.CanonicalPackageName(name); canonical != "" {
			set[canonical] = struct{}{}
		}
	}
	return set
}

// eligibleNames returns the distinct requested names eligible for a source build, in request order.
func (i *Installer) eligibleNames(specs []domain.PackageSpec) []string {
	var names []string
	for _, spec := range specs {
		if _, ok := i.eligible[spec.Name]; ok && !slices.Contains(names, spec.Name) {
			names = append(names, spec.Name)
		}
	}
	return names
}
