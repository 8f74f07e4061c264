package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestFuture_SettlesOnce(t *testing.T) {
	t.Parallel()

	f, resolve, reject := New()
	require.False(t, f.Settled())

	resolve("a")
	resolve("b")
	reject(errBoom)

	require.True(t, f.Settled())
	v, err := f.Result()
	require.NoError(t, err)
	require.Equal(t, "a", v)

	select {
	case <-f.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestFuture_ResolvedAndRejected(t *testing.T) {
	t.Parallel()

	v, err := Resolved(1).Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)

	_, err = Rejected(errBoom).Await(context.Background())
	require.ErrorIs(t, err, errBoom)
}

func TestFuture_AdoptsInnerFuture(t *testing.T) {
	t.Parallel()

	inner, resolveInner, _ := New()
	outer, resolveOuter, _ := New()

	resolveOuter(inner)
	require.False(t, outer.Settled())

	resolveInner("a")
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, "a", v)

	// resolving with itself is ignored
	self, resolveSelf, _ := New()
	resolveSelf(self)
	require.False(t, self.Settled())
}

func TestFuture_OnSettle(t *testing.T) {
	t.Parallel()

	f, _, reject := New()

	var got []error
	f.OnSettle(func(_ interface{}, err error) { got = append(got, err) })
	f.OnSettle(func(_ interface{}, err error) { got = append(got, err) })
	require.Empty(t, got)

	reject(errBoom)
	require.Equal(t, []error{errBoom, errBoom}, got)

	// late registration runs immediately
	f.OnSettle(func(_ interface{}, err error) { got = append(got, err) })
	require.Len(t, got, 3)
}

func TestFuture_AwaitAcrossGoroutines(t *testing.T) {
	t.Parallel()

	f, resolve, _ := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Await(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "a", v)
		}()
	}

	go resolve("a")
	wg.Wait()
}

func TestFuture_AwaitCancelled(t *testing.T) {
	t.Parallel()

	f, resolve, _ := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the future is unaffected by the abandoned wait
	resolve("late")
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "late", v)
}

func TestFuture_Then(t *testing.T) {
	t.Parallel()

	upper := func(v interface{}) (interface{}, error) { return v.(string) + "!", nil }

	v, err := Resolved("a").Then(upper).Result()
	require.NoError(t, err)
	require.Equal(t, "a!", v)

	called := false
	_, err = Rejected(errBoom).Then(func(v interface{}) (interface{}, error) {
		called = true
		return v, nil
	}).Result()
	require.ErrorIs(t, err, errBoom)
	require.False(t, called)

	_, err = Resolved("a").Then(func(interface{}) (interface{}, error) {
		return nil, errBoom
	}).Result()
	require.ErrorIs(t, err, errBoom)

	inner, resolveInner, _ := New()
	chained := Resolved("a").Then(func(interface{}) (interface{}, error) { return inner, nil })
	require.False(t, chained.Settled())
	resolveInner("b")
	v, err = chained.Result()
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestFuture_Catch(t *testing.T) {
	t.Parallel()

	recovered := Rejected(errBoom).Catch(func(err error) (interface{}, error) {
		return "recovered: " + err.Error(), nil
	})
	v, err := recovered.Result()
	require.NoError(t, err)
	require.Equal(t, "recovered: boom", v)

	v, err = Resolved("a").Catch(func(err error) (interface{}, error) {
		return nil, err
	}).Result()
	require.NoError(t, err)
	require.Equal(t, "a", v)

	other := errors.New("other")
	_, err = Rejected(errBoom).Catch(func(error) (interface{}, error) {
		return nil, other
	}).Result()
	require.ErrorIs(t, err, other)
}
