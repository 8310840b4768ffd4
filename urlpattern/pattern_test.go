package urlpattern_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpchain/urlpattern"
)

func TestCompile_RoundTrip(t *testing.T) {
	p, err := urlpattern.Compile(http.MethodGet, "/a/:x/:y(int)", nil)
	require.NoError(t, err)

	assert.Equal(t, "/a/:x/:y", p.Pattern())
	assert.Equal(t, http.MethodGet, p.Method())
	assert.Equal(t, []string{"x", "y"}, p.Captures())

	caps, err := p.Parse(map[string]string{"x": "foo", "y": "42"})
	require.NoError(t, err)
	assert.Equal(t, urlpattern.Captures{"x": "foo", "y": 42}, caps)

	_, err = p.Parse(map[string]string{"x": "foo", "y": "bar"})
	assert.ErrorIs(t, err, urlpattern.ErrNoMatch)
}

func TestCompile_MissingCapture(t *testing.T) {
	p := urlpattern.MustCompile(http.MethodGet, "/users/:id", nil)
	_, err := p.Parse(map[string]string{})
	assert.ErrorIs(t, err, urlpattern.ErrNoMatch)
}

func TestParse_CopiesUnknownKeys(t *testing.T) {
	p := urlpattern.MustCompile(http.MethodGet, "/files/:id(int)/*path", nil)
	caps, err := p.Parse(map[string]string{"id": "7", "path": "a/b.png"})
	require.NoError(t, err)

	id, ok := caps.Int("id")
	require.True(t, ok)
	assert.Equal(t, 7, id)

	path, ok := caps.String("path")
	require.True(t, ok)
	assert.Equal(t, "a/b.png", path)
}

func TestCompile_EmptyAndStatic(t *testing.T) {
	p := urlpattern.MustCompile("get", "", nil)
	assert.Equal(t, "/", p.Pattern())
	assert.Equal(t, http.MethodGet, p.Method())

	p = urlpattern.MustCompile(http.MethodPost, "/health", nil)
	assert.Equal(t, "/health", p.Pattern())
	assert.Empty(t, p.Captures())
}

func TestCompile_Errors(t *testing.T) {
	_, err := urlpattern.Compile(http.MethodGet, "/a/:id(float)", nil)
	assert.ErrorIs(t, err, urlpattern.ErrUnknownConversion)

	_, err = urlpattern.Compile(http.MethodGet, "/a/:id/:id", nil)
	assert.ErrorIs(t, err, urlpattern.ErrInvalidPattern)

	_, err = urlpattern.Compile(http.MethodGet, "/a/:id()", nil)
	assert.ErrorIs(t, err, urlpattern.ErrInvalidPattern)

	assert.Panics(t, func() { urlpattern.MustCompile(http.MethodGet, "/:x(nope)", nil) })
}

func TestCustomConversions(t *testing.T) {
	conv := urlpattern.Builtin().Merge(urlpattern.Conversions{
		"upper": func(raw string) (any, bool) {
			if raw == "" {
				return nil, false
			}
			return strings.ToUpper(raw), true
		},
	})

	p := urlpattern.MustCompile(http.MethodGet, "/tags/:tag(upper)/:n(int)", conv)
	caps, err := p.Parse(map[string]string{"tag": "go", "n": "3"})
	require.NoError(t, err)
	assert.Equal(t, "GO", caps["tag"])
	assert.Equal(t, 3, caps["n"])

	_, hasUpper := urlpattern.Builtin()["upper"]
	assert.False(t, hasUpper, "Merge must not modify the built-in set")
}

func TestBuiltinConversions(t *testing.T) {
	id := uuid.New()
	p := urlpattern.MustCompile(http.MethodGet, "/:id(uuid)/:flag(bool)", nil)

	caps, err := p.Parse(map[string]string{"id": id.String(), "flag": "true"})
	require.NoError(t, err)

	got, ok := urlpattern.Get[uuid.UUID](caps, "id")
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, true, caps["flag"])

	_, err = p.Parse(map[string]string{"id": "not-a-uuid", "flag": "true"})
	assert.ErrorIs(t, err, urlpattern.ErrNoMatch)
}

func TestFromSegments(t *testing.T) {
	p, err := urlpattern.FromSegments(http.MethodGet, nil,
		urlpattern.Lit("/org/"), urlpattern.Str("org"),
		urlpattern.Lit("/repo/"), urlpattern.Int("n"),
	)
	require.NoError(t, err)
	assert.Equal(t, "/org/:org/repo/:n", p.Pattern())

	caps, err := p.Parse(map[string]string{"org": "acme", "n": "12"})
	require.NoError(t, err)
	assert.Equal(t, urlpattern.Captures{"org": "acme", "n": 12}, caps)

	p, err = urlpattern.FromSegments(http.MethodGet, nil)
	require.NoError(t, err)
	assert.Equal(t, "/", p.Pattern())

	_, err = urlpattern.FromSegments(http.MethodGet, nil, urlpattern.Lit("/a:b"))
	assert.ErrorIs(t, err, urlpattern.ErrInvalidPattern)
}
