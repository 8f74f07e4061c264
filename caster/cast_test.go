package caster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCast(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a", Cast[string]("a"))
	require.Equal(t, "", Cast[string](1))
	require.Equal(t, 0, Cast[int](nil))
	require.Nil(t, Cast[error](nil))
	require.Equal(t, []string{"x"}, Cast[[]string]([]string{"x"}))
}

func TestAs(t *testing.T) {
	t.Parallel()

	call := func(v interface{}, err error) (interface{}, error) { return v, err }

	v, err := As[int](call(3, nil))
	require.NoError(t, err)
	require.Equal(t, 3, v)

	boom := errors.New("boom")
	s, err := As[string](call(nil, boom))
	require.ErrorIs(t, err, boom)
	require.Equal(t, "", s)
}

func TestIndex(t *testing.T) {
	t.Parallel()

	vals := []interface{}{"a", 2}
	require.Equal(t, "a", Index[string](vals, 0))
	require.Equal(t, 2, Index[int](vals, 1))
	require.Equal(t, 0, Index[int](vals, 0))
	require.Equal(t, "", Index[string](vals, 2))
	require.Equal(t, "", Index[string](vals, -1))
	require.Equal(t, "", Index[string]("not a slice", 0))
}
