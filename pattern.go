package dynstore

import (
	"os"
	"path"
	"regexp"
	"strconv"
	"sync"
)

// Pattern decides whether a requested name belongs to a registered entry.
type Pattern interface {
	// Match reports whether name matches. A non-nil error means the pattern
	// itself is unusable.
	Match(name string) (Match, bool, error)

	String() string
}

// Match describes a successful pattern match.
type Match struct {
	// Name is the requested name.
	Name string

	// Groups holds the full match at index 0 followed by the captured groups.
	Groups []string

	names []string
}

// Group returns the i-th captured group, or "" when out of range.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Named returns the value of the named capture group.
func (m Match) Named(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for i, n := range m.names {
		if n == name && i < len(m.Groups) {
			return m.Groups[i], true
		}
	}
	return "", false
}

// Expand replaces $1, ${1}, $name and ${name} in template with the captured
// groups. Unknown references expand to the empty string; $$ yields a literal $.
func (m Match) Expand(template string) string {
	return os.Expand(template, func(key string) string {
		if key == "$" {
			return "$"
		}
		if i, err := strconv.Atoi(key); err == nil {
			return m.Group(i)
		}
		v, _ := m.Named(key)
		return v
	})
}

type regexpPattern struct {
	expr string

	once sync.Once
	re   *regexp.Regexp
	err  error
}

// Regexp returns a pattern for a regular expression. The expression is
// compiled on first use, so a malformed expression is reported by Match
// rather than at registration.
func Regexp(expr string) Pattern {
	return &regexpPattern{expr: expr}
}

func (p *regexpPattern) compile() (*regexp.Regexp, error) {
	p.once.Do(func() {
		re, err := regexp.Compile(p.expr)
		if err != nil {
			p.err = NewPatternError(p.expr, err)
			return
		}
		p.re = re
	})
	return p.re, p.err
}

func (p *regexpPattern) Match(name string) (Match, bool, error) {
	re, err := p.compile()
	if err != nil {
		return Match{}, false, err
	}
	m, ok := matchRegexp(re, name)
	return m, ok, nil
}

func (p *regexpPattern) String() string {
	return p.expr
}

type compiledPattern struct {
	re *regexp.Regexp
}

// Compiled returns a pattern for an already compiled expression.
func Compiled(re *regexp.Regexp) Pattern {
	return compiledPattern{re: re}
}

func (p compiledPattern) Match(name string) (Match, bool, error) {
	if p.re == nil {
		return Match{}, false, NewPatternError("<nil>", ErrInvalidEntry)
	}
	m, ok := matchRegexp(p.re, name)
	return m, ok, nil
}

func (p compiledPattern) String() string {
	if p.re == nil {
		return "<nil>"
	}
	return p.re.String()
}

func matchRegexp(re *regexp.Regexp, name string) (Match, bool) {
	groups := re.FindStringSubmatch(name)
	if groups == nil {
		return Match{}, false
	}
	return Match{Name: name, Groups: groups, names: re.SubexpNames()}, true
}

type globPattern struct {
	expr string
}

// Glob returns a pattern using path.Match syntax. The whole name must match.
func Glob(expr string) Pattern {
	return globPattern{expr: expr}
}

func (p globPattern) Match(name string) (Match, bool, error) {
	ok, err := path.Match(p.expr, name)
	if err != nil {
		return Match{}, false, NewPatternError(p.expr, err)
	}
	if !ok {
		return Match{}, false, nil
	}
	return Match{Name: name, Groups: []string{name}}, true, nil
}

func (p globPattern) String() string {
	return p.expr
}
