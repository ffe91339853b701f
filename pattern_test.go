package dynstore

import (
	"errors"
	"path"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexp(t *testing.T) {
	t.Run("captures groups", func(t *testing.T) {
		m, ok, err := Regexp(`^store_(\w+)$`).Match("store_users")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "store_users", m.Name)
		assert.Equal(t, []string{"store_users", "users"}, m.Groups)
		assert.Equal(t, "users", m.Group(1))
		assert.Equal(t, "", m.Group(2))
		assert.Equal(t, "", m.Group(-1))
	})

	t.Run("unanchored search", func(t *testing.T) {
		_, ok, err := Regexp(`cache`).Match("my_cache_1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no match", func(t *testing.T) {
		m, ok, err := Regexp(`^store_(\w+)$`).Match("other")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, m.Groups)
	})

	t.Run("malformed expression fails on match", func(t *testing.T) {
		p := Regexp(`store_(`)
		assert.Equal(t, `store_(`, p.String())

		_, ok, err := p.Match("store_x")
		require.Error(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidPattern)

		var perr *PatternError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, `store_(`, perr.Pattern)

		// compile error is remembered
		_, _, err2 := p.Match("anything")
		assert.Same(t, err, err2)
	})
}

func TestCompiled(t *testing.T) {
	re := regexp.MustCompile(`^(?P<kind>cache|store)_(?P<bucket>\w+)$`)
	p := Compiled(re)
	assert.Equal(t, re.String(), p.String())

	m, ok, err := p.Match("cache_sessions")
	require.NoError(t, err)
	require.True(t, ok)

	kind, ok := m.Named("kind")
	assert.True(t, ok)
	assert.Equal(t, "cache", kind)

	bucket, ok := m.Named("bucket")
	assert.True(t, ok)
	assert.Equal(t, "sessions", bucket)

	_, ok = m.Named("missing")
	assert.False(t, ok)
	_, ok = m.Named("")
	assert.False(t, ok)

	_, _, err = Compiled(nil).Match("x")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestGlob(t *testing.T) {
	tests := []struct {
		expr  string
		name  string
		match bool
	}{
		{"scratch_*", "scratch_1", true},
		{"scratch_*", "my_scratch_1", false},
		{"tmp/?", "tmp/a", true},
		{"tmp/?", "tmp/ab", false},
		{"[ab]_store", "a_store", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr+" "+tt.name, func(t *testing.T) {
			m, ok, err := Glob(tt.expr).Match(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.match, ok)
			if ok {
				assert.Equal(t, []string{tt.name}, m.Groups)
			}
		})
	}

	t.Run("malformed glob fails on match", func(t *testing.T) {
		_, ok, err := Glob("[").Match("x")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrInvalidPattern)
		assert.ErrorIs(t, err, path.ErrBadPattern)
	})
}

func TestMatch_Expand(t *testing.T) {
	m, ok, err := Regexp(`^(?P<kind>\w+)_(?P<bucket>\w+)$`).Match("store_orders")
	require.NoError(t, err)
	require.True(t, ok)

	tests := []struct {
		template string
		want     string
	}{
		{"table_$2", "table_orders"},
		{"${1}-${2}", "store-orders"},
		{"ns:${bucket}", "ns:orders"},
		{"$kind", "store"},
		{"${0}", "store_orders"},
		{"$9", ""},
		{"${unknown}", ""},
		{"cost $$5", "cost $5"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Expand(tt.template))
		})
	}
}
