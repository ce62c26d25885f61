package mira

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveModuleSpecifier computes the normalized absolute path a specifier
// maps to. An empty base or referrerPath means "none".
//
// A specifier is relative when its first path component is `.` or `..` (the
// ECMAScript convention; a path that merely looks absolute in filesystem
// terms is not relative here). Relative specifiers resolve against the
// directory of the referrer's path and fail without one; everything else
// resolves against the base. `/` separators written in source are translated
// to the native separator before classification.
//
// Normalization walks components left to right, dropping empty and `.`
// components and popping on `..`. Popping past the start of a rootless path
// fails immediately, so payloads like `a/../../b` are rejected even when
// they would re-enter the root. When a base was supplied, the result must
// remain a descendant of it.
func ResolveModuleSpecifier(base, specifier, referrerPath string) (string, error) {
	sep := string(filepath.Separator)
	spec := strings.ReplaceAll(specifier, "/", sep)

	var joined string
	if specifierIsRelative(spec, sep) {
		if referrerPath == "" {
			return "", fmt.Errorf("cannot resolve %q: %w", specifier, ErrNoReferrer)
		}
		joined = rawJoin(rawJoin(base, filepath.Dir(referrerPath), sep), spec, sep)
	} else {
		joined = rawJoin(base, spec, sep)
	}

	if base != "" && !filepath.IsAbs(joined) {
		return "", fmt.Errorf("cannot resolve %q: %w", specifier, ErrRelativeResolved)
	}

	vol, rooted, parts, err := normalizeComponents(joined, sep)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", specifier, err)
	}

	resolved := vol
	if rooted {
		resolved += sep
	}
	resolved += strings.Join(parts, sep)

	if base != "" && !hasPathPrefix(resolved, base, sep) {
		return "", fmt.Errorf("cannot resolve %q: %w", specifier, ErrOutsideRoot)
	}
	return resolved, nil
}

func specifierIsRelative(spec, sep string) bool {
	first, _, _ := strings.Cut(spec, sep)
	return first == "." || first == ".."
}

// rawJoin concatenates without cleaning; Clean-style joining would collapse
// `..` segments before normalizeComponents can reject them. An absolute
// second operand replaces the first.
func rawJoin(a, b, sep string) string {
	switch {
	case b == "":
		return a
	case filepath.IsAbs(b), a == "":
		return b
	case strings.HasSuffix(a, sep):
		return a + b
	default:
		return a + sep + b
	}
}

// normalizeComponents splits path into its volume, rootedness, and the
// normalized component list. A `..` with nothing left to pop on a rootless
// path escapes the module root; on a rooted path it stays at the root.
func normalizeComponents(path, sep string) (vol string, rooted bool, parts []string, err error) {
	vol = filepath.VolumeName(path)
	rest := path[len(vol):]
	rooted = strings.HasPrefix(rest, sep)

	for _, comp := range strings.Split(rest, sep) {
		switch comp {
		case "", ".":
		case "..":
			if len(parts) == 0 {
				if !rooted {
					return "", false, nil, ErrOutsideRoot
				}
				continue
			}
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, comp)
		}
	}
	return vol, rooted, parts, nil
}

func hasPathPrefix(path, prefix, sep string) bool {
	pVol, pRooted, pParts, err := normalizeComponents(path, sep)
	if err != nil {
		return false
	}
	bVol, bRooted, bParts, err := normalizeComponents(prefix, sep)
	if err != nil {
		return false
	}
	if pVol != bVol || pRooted != bRooted || len(bParts) > len(pParts) {
		return false
	}
	for i, comp := range bParts {
		if pParts[i] != comp {
			return false
		}
	}
	return true
}
