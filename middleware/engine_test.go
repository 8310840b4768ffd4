package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpchain/middleware"
	"github.com/iaconlabs/warpchain/response"
)

type base struct{ name string }

func newReq() *middleware.Request[base] {
	return middleware.NewRequest(base{name: "test"})
}

// recorder collects an ordered log shared by middleware and finalizers.
type recorder struct{ events []string }

func (r *recorder) add(e string) { r.events = append(r.events, e) }

func (r *recorder) finalizer(name string) middleware.Finalizer {
	return func(context.Context) error {
		r.add(name)
		return nil
	}
}

func TestExecute_Ordering(t *testing.T) {
	var seen [][]string
	observe := func(key string, value int) middleware.Func[base] {
		return func(_ context.Context, req *middleware.Request[base]) (middleware.Outcome, error) {
			var keys []string
			for _, k := range []string{"a", "b", "c"} {
				if _, ok := req.Lookup(k); ok {
					keys = append(keys, k)
				}
			}
			seen = append(seen, keys)
			return middleware.Next(middleware.Fields{key: value}), nil
		}
	}

	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		observe("a", 1), observe("b", 2), observe("c", 3),
	})
	require.NoError(t, err)
	require.False(t, res.Stopped())
	res.Finalize(t.Context())

	assert.Equal(t, [][]string{nil, {"a"}, {"a", "b"}}, seen)
	assert.Equal(t, middleware.Fields{"a": 1, "b": 2, "c": 3}, res.Request.Fields())
}

func TestExecute_MergeLaterWins(t *testing.T) {
	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(middleware.Fields{"a": 1}), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(middleware.Fields{"a": 2, "b": 3}), nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, middleware.Fields{"a": 2, "b": 3}, res.Request.Fields())
}

func TestExecute_NilValuesAreNotMerged(t *testing.T) {
	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(middleware.Fields{"a": 1}), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(middleware.Fields{"a": nil, "b": nil}), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Continue(), nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, middleware.Fields{"a": 1}, res.Request.Fields())
	_, ok := res.Request.Lookup("b")
	assert.False(t, ok)
}

func TestExecute_EmptyChain(t *testing.T) {
	req := middleware.NewRequest(base{name: "x"}, middleware.Fields{"seed": true})
	res, err := middleware.Execute(t.Context(), req, nil)
	require.NoError(t, err)

	assert.False(t, res.Stopped())
	assert.Same(t, req, res.Request)
	assert.Equal(t, middleware.Fields{"seed": true}, res.Request.Fields())
	res.Finalize(t.Context())
}

func TestExecute_FinalizersRunInReverse(t *testing.T) {
	rec := &recorder{}
	mw := func(name string) middleware.Func[base] {
		return func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			rec.add("run " + name)
			return middleware.Next(nil, rec.finalizer("final "+name)), nil
		}
	}

	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{mw("1"), mw("2")})
	require.NoError(t, err)
	assert.Equal(t, []string{"run 1", "run 2"}, rec.events, "finalizers must wait for Finalize")

	res.Finalize(t.Context())
	res.Finalize(t.Context())

	assert.Equal(t, []string{"run 1", "run 2", "final 2", "final 1"}, rec.events)
}

func TestExecute_TypedNilValuesAreNotMerged(t *testing.T) {
	type user struct{ name string }
	alice := &user{name: "alice"}
	req := middleware.NewRequest(base{}, middleware.Fields{"user": alice, "tags": []string{"a"}})

	res, err := middleware.Execute(t.Context(), req, []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			var tags []string
			return middleware.Next(middleware.Fields{"user": (*user)(nil), "tags": tags}), nil
		},
	})
	require.NoError(t, err)

	got, ok := middleware.Field[*user](res.Request, "user")
	require.True(t, ok)
	assert.Same(t, alice, got)
	assert.Equal(t, []string{"a"}, middleware.MustField[[]string](res.Request, "tags"))
}

func TestExecute_EveryFinalizerOfAStepIsKept(t *testing.T) {
	rec := &recorder{}
	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("a1"), nil, rec.finalizer("a2")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("b1"), rec.finalizer("b2")), nil
		},
	})
	require.NoError(t, err)

	res.Finalize(t.Context())
	assert.Equal(t, []string{"b2", "b1", "a2", "a1"}, rec.events)
}

func TestExecute_StopSkipsDownstream(t *testing.T) {
	rec := &recorder{}
	chain := []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			rec.add("m1")
			return middleware.Next(nil, rec.finalizer("f1")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			rec.add("m2")
			return middleware.Stop(response.Unauthorized("nope")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			rec.add("m3")
			return middleware.Next(nil, rec.finalizer("f3")), nil
		},
	}

	res, err := middleware.Execute(t.Context(), newReq(), chain)
	require.NoError(t, err)
	require.True(t, res.Stopped())

	assert.Equal(t, 401, res.Response.Status)
	assert.Equal(t, "nope", res.Response.Body)
	assert.Equal(t, []string{"m1", "m2", "f1"}, rec.events)

	res.Finalize(t.Context())
	assert.Equal(t, []string{"m1", "m2", "f1"}, rec.events, "finalizers drain only once")
}

func TestExecute_StopFinalizerOfStoppingMiddlewareIsIgnored(t *testing.T) {
	// A stop outcome carries no finalizer; only earlier registrations run.
	rec := &recorder{}
	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("f1")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Stop(response.BadRequest(nil)), nil
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Stopped())
	assert.Equal(t, []string{"f1"}, rec.events)
}

func TestExecute_ErrorDrainsAndPropagates(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")

	res, err := middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("f1")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("f2")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Outcome{}, boom
		},
	})

	assert.Nil(t, res)
	assert.Same(t, boom, err, "the original error must not be wrapped")
	assert.Equal(t, []string{"f2", "f1"}, rec.events)
}

func TestExecute_PanicDrainsAndRepanics(t *testing.T) {
	rec := &recorder{}

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = middleware.Execute(t.Context(), newReq(), []middleware.Func[base]{
			func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
				return middleware.Next(nil, rec.finalizer("f1")), nil
			},
			func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
				panic("kaboom")
			},
		})
	})
	assert.Equal(t, []string{"f1"}, rec.events)
}

func TestFinalize_IsolatesFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := &recorder{}

	chain := []middleware.Func[base]{
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, rec.finalizer("f0")), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, func(context.Context) error {
				rec.add("f1 panics")
				panic("finalizer exploded")
			}), nil
		},
		func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
			return middleware.Next(nil, func(context.Context) error {
				rec.add("f2 fails")
				return errors.New("cleanup failed")
			}), nil
		},
	}

	res, err := middleware.Execute(t.Context(), newReq(), chain, middleware.WithLogger(logger))
	require.NoError(t, err)
	res.Finalize(t.Context())

	assert.Equal(t, []string{"f2 fails", "f1 panics", "f0"}, rec.events)
	assert.Contains(t, buf.String(), "cleanup failed")
	assert.Contains(t, buf.String(), "finalizer exploded")
}

func TestField(t *testing.T) {
	req := middleware.NewRequest(base{}, middleware.Fields{"user": "ana", "n": 3})

	user, ok := middleware.Field[string](req, "user")
	require.True(t, ok)
	assert.Equal(t, "ana", user)

	_, ok = middleware.Field[string](req, "n")
	assert.False(t, ok)

	assert.Equal(t, 3, middleware.MustField[int](req, "n"))
	assert.Panics(t, func() { middleware.MustField[int](req, "missing") })

	assert.Nil(t, req.RouteParams())
	assert.Nil(t, req.Get("missing"))
}

func TestChainAppend(t *testing.T) {
	noop := func(context.Context, *middleware.Request[base]) (middleware.Outcome, error) {
		return middleware.Continue(), nil
	}
	c := middleware.Chain[base]{noop}
	longer := c.Append(noop, noop)

	assert.Len(t, c, 1)
	assert.Len(t, longer, 3)
}
