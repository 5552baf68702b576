package dict

import (
	"math"
	randv2 "math/rand"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xdict/xlog"
)

func TestDictScenario(t *testing.T) {
	d := New()

	require.True(t, d.AddOrUpdate(10, "ten"))
	require.True(t, d.AddOrUpdate(20, "twenty"))
	require.True(t, d.AddOrUpdate(5, "five"))
	require.Equal(t, int64(3), d.Len())

	require.True(t, d.Contains(10))
	require.False(t, d.Contains(15))

	val, ok := d.Get(10)
	require.True(t, ok)
	require.Equal(t, "ten", val)

	val, ok = d.Get(15)
	require.False(t, ok)
	require.Equal(t, "", val)

	require.True(t, d.Delete(20))
	require.False(t, d.Contains(20))
	require.True(t, d.Contains(10))
	require.Equal(t, int64(2), d.Len())
}

func TestDictUpdateSemantics(t *testing.T) {
	d := New()

	require.True(t, d.AddOrUpdate(5, "five"))
	// Same key again: value replaced in place, no duplicate entry.
	require.False(t, d.AddOrUpdate(5, "FIVE"))
	require.Equal(t, int64(1), d.Len())

	val, ok := d.Get(5)
	require.True(t, ok)
	require.Equal(t, "FIVE", val)
}

func TestDictAbsence(t *testing.T) {
	d := New()

	for _, key := range []uint64{0, 1, 42, math.MaxUint64} {
		require.False(t, d.Contains(key))
		val, ok := d.Get(key)
		require.False(t, ok)
		require.Equal(t, "", val)
		require.False(t, d.Delete(key))
	}

	require.True(t, d.AddOrUpdate(0, "zero"))
	require.True(t, d.AddOrUpdate(math.MaxUint64, "max"))
	require.True(t, d.Contains(0))
	require.True(t, d.Contains(math.MaxUint64))
	require.False(t, d.Contains(1))
}

func TestDictTwoChildrenRemoval(t *testing.T) {
	d := New()

	d.AddOrUpdate(10, "ten")
	d.AddOrUpdate(20, "twenty")
	d.AddOrUpdate(5, "five")

	// 10 is the root with two children; its successor must take over.
	require.True(t, d.Delete(10))
	require.False(t, d.Contains(10))

	val, ok := d.Get(20)
	require.True(t, ok)
	require.Equal(t, "twenty", val)

	val, ok = d.Get(5)
	require.True(t, ok)
	require.Equal(t, "five", val)
	require.Equal(t, int64(2), d.Len())
}

func TestDictReferenceModel(t *testing.T) {
	total := 5000
	keys := make([]uint64, 0, total)
	for len(keys) < total {
		keys = append(keys, randv2.Uint64()%uint64(total*4))
	}
	keys = lo.Shuffle(lo.Uniq(keys))

	d := New()
	model := make(map[uint64]string, len(keys))

	for i, k := range keys {
		val := strconv.Itoa(i)
		_, existed := model[k]
		require.Equal(t, !existed, d.AddOrUpdate(k, val))
		model[k] = val
	}

	// Overwrite a random quarter.
	for _, k := range lo.Shuffle(keys)[:len(keys)/4] {
		model[k] = "again-" + strconv.FormatUint(k, 10)
		require.False(t, d.AddOrUpdate(k, model[k]))
	}

	// Delete a random quarter.
	for _, k := range lo.Shuffle(keys)[:len(keys)/4] {
		require.True(t, d.Delete(k))
		delete(model, k)
	}

	require.Equal(t, int64(len(model)), d.Len())
	for _, k := range keys {
		want, existed := model[k]
		got, ok := d.Get(k)
		require.Equal(t, existed, ok)
		require.Equal(t, existed, d.Contains(k))
		if existed {
			require.Equal(t, want, got)
		}
	}
}

// Readers never mutate, so any number of them may run against a
// dictionary that nobody is writing to.
func TestDictConcurrentReaders(t *testing.T) {
	total := uint64(10_000)
	d := New()
	for i := uint64(0); i < total; i++ {
		d.AddOrUpdate(i, strconv.FormatUint(i, 10))
	}

	pool, err := ants.NewPool(16, ants.WithPreAlloc(true))
	require.NoError(t, err)
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mismatch atomic.Int64
	)
	for i := 0; i < 4096; i++ {
		key := randv2.Uint64() % (total * 2)
		wg.Add(1)
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			val, ok := d.Get(key)
			if key < total {
				if !ok || val != strconv.FormatUint(key, 10) || !d.Contains(key) {
					mismatch.Add(1)
				}
			} else {
				if ok || d.Contains(key) {
					mismatch.Add(1)
				}
			}
		}))
	}
	wg.Wait()
	require.Equal(t, int64(0), mismatch.Load())
}

func TestDictPurge(t *testing.T) {
	d := New()

	// Purging an empty dictionary is harmless.
	d.Purge()
	require.Equal(t, int64(0), d.Len())

	for i := uint64(0); i < 1000; i++ {
		d.AddOrUpdate(i, strconv.FormatUint(i, 10))
	}
	d.Purge()
	require.Equal(t, int64(0), d.Len())
	require.False(t, d.Contains(0))

	// The dictionary stays usable after a purge.
	require.True(t, d.AddOrUpdate(7, "seven"))
	require.Equal(t, int64(1), d.Len())
}

func TestDictWithLogger(t *testing.T) {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerEncoder(xlog.PlainText),
	)
	d := New(WithDictLogger(logger))

	require.True(t, d.AddOrUpdate(1, "one"))
	require.False(t, d.AddOrUpdate(1, "ONE"))
	require.True(t, d.Delete(1))
	require.False(t, d.Delete(1))
	d.Purge()
	_ = logger.Sync()
}

func BenchmarkDictAddOrUpdate_Random(b *testing.B) {
	b.StopTimer()
	d := New()
	rngArr := make([]uint64, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Uint64())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		d.AddOrUpdate(rngArr[i], "abc")
	}
}

func BenchmarkDictGet(b *testing.B) {
	b.StopTimer()
	d := New()
	for i := uint64(0); i < 1<<16; i++ {
		d.AddOrUpdate(i, "abc")
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_, _ = d.Get(uint64(i) & (1<<16 - 1))
	}
}
