package router

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	rverrors "github.com/vango-dev/routeview/internal/errors"
)

// Request path errors.
var (
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize cleans a request path and splits off its query.
//
//   - duplicate slashes collapse (/a//b → /a/b)
//   - "." segments are dropped and ".." segments pop one segment
//   - the trailing slash is removed, except for "/"
//
// Backslashes, NUL bytes, malformed escapes and ".." above the root are
// rejected.
func Canonicalize(input string) (path, query string, err error) {
	path, query, _ = strings.Cut(input, "?")
	if path == "" {
		return "/", query, nil
	}
	if strings.Contains(path, `\`) {
		return "", "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", "", ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := checkEscapes(path); err != nil {
			return "", "", err
		}
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), query, nil
}

func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodeSegments splits a canonical path and unescapes each segment.
func decodeSegments(path string) ([]string, error) {
	segs := splitPath(path)
	for i, s := range segs {
		d, err := url.PathUnescape(s)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		segs[i] = d
	}
	return segs, nil
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// joinPath resolves a record path against its parent's full path.
func joinPath(parent, path string) string {
	if strings.HasPrefix(path, "/") || parent == "" {
		return "/" + strings.Join(splitPath(path), "/")
	}
	joined := strings.Join(append(splitPath(parent), splitPath(path)...), "/")
	return "/" + joined
}

// parseParamSegment extracts name and type from a parameter segment.
// ":id" → ("id", "string"), ":id:int" → ("id", "int").
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}

// checkPattern validates a full route path pattern.
func checkPattern(pattern string) error {
	segs := splitPath(pattern)
	seen := make(map[string]bool)
	for i, seg := range segs {
		var name string
		switch {
		case strings.HasPrefix(seg, "*"):
			if i != len(segs)-1 {
				return rverrors.New("E105").WithDetailf("%q: catch-all %q is not the last segment", pattern, seg)
			}
			name = seg[1:]
		case strings.HasPrefix(seg, ":"):
			var typ string
			name, typ = parseParamSegment(seg)
			if !knownParamType(typ) {
				return rverrors.New("E105").WithDetailf("%q: unknown parameter type %q", pattern, typ)
			}
		default:
			continue
		}
		if name == "" {
			return rverrors.New("E105").WithDetailf("%q: unnamed parameter", pattern)
		}
		if seen[name] {
			return rverrors.New("E105").WithDetailf("%q: parameter %q repeated", pattern, name)
		}
		seen[name] = true
	}
	return nil
}

func knownParamType(t string) bool {
	switch t {
	case "string", "int", "uint", "uuid":
		return true
	}
	return false
}

// validParam reports whether value satisfies the parameter type.
func validParam(value, paramType string) bool {
	switch paramType {
	case "int":
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case "uint":
		_, err := strconv.ParseUint(value, 10, 64)
		return err == nil
	case "uuid":
		return uuid.Validate(value) == nil
	default:
		return value != ""
	}
}
