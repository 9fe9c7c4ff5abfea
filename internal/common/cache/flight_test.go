package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memoize = Options{CacheDuration: time.Hour, ShouldCache: true}

func countingProducer(calls *atomic.Int32, value string) Producer[string] {
	return func(ctx context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestFlight_ReturnsFreshEntryWithoutProducer(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32

	v, err := f.Get(context.Background(), "player:u1", countingProducer(&calls, "first"), memoize)
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	v, err = f.Get(context.Background(), "player:u1", countingProducer(&calls, "second"), memoize)
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, int32(1), calls.Load())

	stats := f.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestFlight_ConcurrentCallersShareOneExecution(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	producer := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "built", nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = f.Get(context.Background(), "player:u1", producer, memoize)
	}()
	<-started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.Get(context.Background(), "player:u1", producer, memoize)
		}(i)
	}

	// let the late callers reach the in-flight call before it settles
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < callers; i++ {
		assert.NoError(t, errs[i])
		assert.Equal(t, "built", results[i])
	}
}

func TestFlight_FailureIsSharedAndNotStored(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32
	boom := errors.New("upstream down")
	started := make(chan struct{})
	release := make(chan struct{})

	failing := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "", boom
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = f.Get(context.Background(), "k", failing, memoize)
	}()
	<-started
	for i := 1; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.Get(context.Background(), "k", failing, memoize)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 0, f.Len())

	// the next call runs the producer again
	v, err := f.Get(context.Background(), "k", countingProducer(&calls, "recovered"), memoize)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, uint64(1), f.Stats().Failures)
}

func TestFlight_DisabledMemoizationAlwaysInvokes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero duration", opts: Options{CacheDuration: 0, ShouldCache: true}},
		{name: "should cache false", opts: Options{CacheDuration: time.Hour, ShouldCache: false}},
		{name: "both off", opts: Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlight[string]("test")
			var calls atomic.Int32

			// a stored entry from an earlier memoized call must not be served either
			_, err := f.Get(context.Background(), "k", countingProducer(&calls, "v"), memoize)
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				_, err := f.Get(context.Background(), "k", countingProducer(&calls, "v"), tt.opts)
				require.NoError(t, err)
			}
			assert.Equal(t, int32(4), calls.Load())
		})
	}
}

func TestFlight_DisabledMemoizationStoresNothing(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32

	_, err := f.Get(context.Background(), "k", countingProducer(&calls, "v"), Options{ShouldCache: false, CacheDuration: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestFlight_ExpiredEntryIsRebuilt(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32
	short := Options{CacheDuration: 50 * time.Millisecond, ShouldCache: true}

	_, err := f.Get(context.Background(), "k", countingProducer(&calls, "old"), short)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	v, err := f.Get(context.Background(), "k", countingProducer(&calls, "new"), short)
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFlight_KeysAreIndependent(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32

	a, err := f.Get(context.Background(), "player:a", countingProducer(&calls, "A"), memoize)
	require.NoError(t, err)
	b, err := f.Get(context.Background(), "player:b", countingProducer(&calls, "B"), memoize)
	require.NoError(t, err)

	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFlight_Forget(t *testing.T) {
	f := NewFlight[string]("test")
	var calls atomic.Int32

	_, err := f.Get(context.Background(), "k", countingProducer(&calls, "v1"), memoize)
	require.NoError(t, err)

	f.Forget("k")

	v, err := f.Get(context.Background(), "k", countingProducer(&calls, "v2"), memoize)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFlight_ProducerIgnoresCallerCancellation(t *testing.T) {
	f := NewFlight[string]("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := f.Get(ctx, "k", func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "ok", nil
	}, memoize)

	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestFlight_NilPointerValue(t *testing.T) {
	type record struct{ name string }
	f := NewFlight[*record]("test")

	v, err := f.Get(context.Background(), "k", func(ctx context.Context) (*record, error) {
		return nil, nil
	}, memoize)

	require.NoError(t, err)
	assert.Nil(t, v)
}
