package bwire

import (
	"slices"

	"github.com/advdv/bwire/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser maps route names to their templates so paths can be built back from parameter values. A
// template is a path of literal segments, ":name" segments and an optional final "*" segment.
type Reverser struct {
	pats map[string]*pathpattern.Pattern
}

// NewReverser returns a Reverser without any named routes.
func NewReverser() *Reverser {
	return &Reverser{make(map[string]*pathpattern.Pattern)}
}

// Reverse builds the path of the named route. It takes one value per ":name" segment and one for the
// wildcard, in template order. Values replace whole segments, so they may not contain '/' except the
// wildcard's.
func (r Reverser) Reverse(name string, vals ...string) (string, error) {
	pat, ok := r.pats[name]
	if !ok {
		names := lo.Keys(r.pats)
		slices.Sort(names)

		return "", errors.Newf("no route named %q, known routes: %v", name, names)
	}

	res, err := pathpattern.Build(pat, vals...)
	if err != nil {
		return "", errors.Wrapf(err, "build path for route %q", name)
	}

	return res, nil
}

// Named is like NamedPattern but panics when the name is taken or the template is invalid.
func (r Reverser) Named(name, tpl string) string {
	tpl, err := r.NamedPattern(name, tpl)
	if err != nil {
		panic("bwire: " + err.Error())
	}

	return tpl
}

// NamedPattern compiles tpl and registers it under name. It returns tpl unchanged.
func (r Reverser) NamedPattern(name, tpl string) (string, error) {
	if _, exists := r.pats[name]; exists {
		return tpl, errors.Newf("route name %q is already taken", name)
	}

	pat, err := pathpattern.Parse(tpl)
	if err != nil {
		return tpl, errors.Wrapf(err, "route %q", name)
	}

	r.pats[name] = pat

	return tpl, nil
}
