// Package pathpattern compiles route templates such as "/users/:id" or "/files/*" into a single anchored
// regular expression per template and builds paths back from them.
package pathpattern

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Wildcard is the template segment that matches the remainder of a path. Its capture is bound under the same name.
const Wildcard = "*"

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentParam
	segmentWildcard
)

type segment struct {
	kind segmentKind
	text string // literal text or parameter name
}

// Pattern is a compiled route template. It is safe for concurrent use.
type Pattern struct {
	str   string
	segs  []segment
	names []string
	re    *regexp.Regexp
}

// Parse compiles a template. Literal segments match case-insensitively, ":name" segments match one or more
// characters other than '/', and a final "*" segment matches one or more characters of any kind.
func Parse(tpl string) (*Pattern, error) {
	if tpl == "" {
		return nil, errors.New("empty pattern")
	}

	if tpl[0] != '/' {
		return nil, errors.Newf("pattern %q must start with '/'", tpl)
	}

	parts := strings.Split(StripTrailingSlash(tpl), "/")[1:]
	pat := &Pattern{str: tpl, segs: make([]segment, 0, len(parts))}

	var expr strings.Builder
	expr.WriteString(`(?i)^`)

	seen := make(map[string]struct{}, len(parts))
	for i, part := range parts {
		expr.WriteByte('/')

		switch {
		case part == Wildcard:
			if i != len(parts)-1 {
				return nil, errors.Newf("pattern %q: wildcard must be the final segment", tpl)
			}

			pat.segs = append(pat.segs, segment{kind: segmentWildcard, text: Wildcard})
			pat.names = append(pat.names, Wildcard)
			expr.WriteString(`(.+)`)
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, errors.Newf("pattern %q: parameter segment without a name", tpl)
			}

			if _, dup := seen[name]; dup {
				return nil, errors.Newf("pattern %q: duplicate parameter name %q", tpl, name)
			}

			seen[name] = struct{}{}
			pat.segs = append(pat.segs, segment{kind: segmentParam, text: name})
			pat.names = append(pat.names, name)
			expr.WriteString(`([^/]+)`)
		default:
			pat.segs = append(pat.segs, segment{kind: segmentLiteral, text: part})
			expr.WriteString(regexp.QuoteMeta(part))
		}
	}

	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", tpl)
	}

	pat.re = re

	return pat, nil
}

// MustParse is like Parse but panics on an invalid template.
func MustParse(tpl string) *Pattern {
	pat, err := Parse(tpl)
	if err != nil {
		panic("pathpattern: " + err.Error())
	}

	return pat
}

// String returns the template the pattern was parsed from.
func (p *Pattern) String() string { return p.str }

// Names returns the bound names in template order.
func (p *Pattern) Names() []string { return append([]string(nil), p.names...) }

// Match reports whether path matches the pattern as a whole and returns the bindings. The caller is
// responsible for normalizing the path, see [StripTrailingSlash].
func (p *Pattern) Match(path string) (map[string]string, bool) {
	sub := p.re.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}

	params := make(map[string]string, len(p.names))
	for i, name := range p.names {
		params[name] = sub[i+1]
	}

	return params, true
}

// StripTrailingSlash removes a single trailing slash so "/a/" and "/a" are treated alike.
func StripTrailingSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}

	return path
}

// Build substitutes vals, in order, for the parameter and wildcard segments of pat.
func Build(pat *Pattern, vals ...string) (string, error) {
	if len(vals) < len(pat.names) {
		return "", errors.Newf("not enough values for %q: got %d, want %d", pat.str, len(vals), len(pat.names))
	}

	if len(vals) > len(pat.names) {
		return "", errors.Newf("too many values for %q: got %d, want %d", pat.str, len(vals), len(pat.names))
	}

	if len(pat.segs) == 0 {
		return "/", nil
	}

	var b strings.Builder

	next := 0
	for _, seg := range pat.segs {
		b.WriteByte('/')

		if seg.kind == segmentLiteral {
			b.WriteString(seg.text)
			continue
		}

		val := vals[next]
		next++

		if val == "" {
			return "", errors.Newf("empty value for %q in %q", seg.text, pat.str)
		}

		if seg.kind == segmentParam && strings.Contains(val, "/") {
			return "", errors.Newf("value for %q in %q must not contain '/'", seg.text, pat.str)
		}

		b.WriteString(val)
	}

	return b.String(), nil
}
