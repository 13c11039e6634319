package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitoramaral10/regex-classifier/internal/mapping"
)

const domains = `"mail.google.com","mail.google.com"
"google.com",".*\.google\.com",".*\.google\.pl"
"yahoo.com","yahoo.com"
`

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ptr(s string) *string {
	return &s
}

func TestClassify(t *testing.T) {
	path := writeMapping(t, domains)
	c := New()

	tests := []struct {
		input string
		want  string
	}{
		{"news.google.com", "google.com"},
		{"news.google.pl", "google.com"},
		{"yahoo.com", "yahoo.com"},
		{"mail.google.com", "mail.google.com"},
		{"xxx.abc.com", "xxx.abc.com"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := c.Classify(path, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyIsRepeatable(t *testing.T) {
	c := New()
	path := writeMapping(t, domains)

	first, err := c.Classify(path, "news.google.com")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := c.Classify(path, "news.google.com")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestClassifyRequiresFullMatch(t *testing.T) {
	path := writeMapping(t, `"google.com","google\.com"
"partial","abc.*"
`)
	c := New()

	got, err := c.Classify(path, "xgoogle.comx")
	require.NoError(t, err)
	assert.Equal(t, "xgoogle.comx", got)

	got, err = c.Classify(path, "google.com")
	require.NoError(t, err)
	assert.Equal(t, "google.com", got)

	got, err = c.Classify(path, "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	got, err = c.Classify(path, "xabc")
	require.NoError(t, err)
	assert.Equal(t, "xabc", got)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	path := writeMapping(t, `"first",".*\.example\.com","shop\.example\.com"
"second","shop\.example\.com"
`)
	c := New()

	got, err := c.Classify(path, "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestEvaluateAbsentArguments(t *testing.T) {
	var calls int32
	c := New(WithLoader(func(string) (mapping.Table, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}))

	got, err := c.Evaluate(nil, ptr("yahoo.com"))
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = c.Evaluate(ptr("mapping.csv"), nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.False(t, c.Loaded())
}

func TestEvaluate(t *testing.T) {
	path := writeMapping(t, domains)
	c := New()

	got, err := c.Evaluate(&path, ptr("news.google.pl"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "google.com", *got)
}

func TestClassifyKeepsStaleTable(t *testing.T) {
	path := writeMapping(t, domains)
	c := New()

	got, err := c.Classify(path, "yahoo.com")
	require.NoError(t, err)
	assert.Equal(t, "yahoo.com", got)

	require.NoError(t, os.WriteFile(path, []byte(`"portal","yahoo\.com"`+"\n"), 0o644))

	got, err = c.Classify(path, "yahoo.com")
	require.NoError(t, err)
	assert.Equal(t, "yahoo.com", got)

	fresh := New()
	got, err = fresh.Classify(path, "yahoo.com")
	require.NoError(t, err)
	assert.Equal(t, "portal", got)
}

func TestClassifyRetriesFailedLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.csv")
	c := New()

	_, err := c.Classify(path, "yahoo.com")
	require.Error(t, err)
	var unavailable *mapping.ResourceUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.False(t, c.Loaded())

	require.NoError(t, os.WriteFile(path, []byte(domains), 0o644))

	got, err := c.Classify(path, "news.google.com")
	require.NoError(t, err)
	assert.Equal(t, "google.com", got)
	assert.True(t, c.Loaded())
}

func TestClassifyPatternErrorIsNotCached(t *testing.T) {
	path := writeMapping(t, `"bad","("`)
	c := New()

	_, err := c.Classify(path, "x")
	var compileErr *mapping.PatternCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, path, compileErr.Path)
	assert.False(t, c.Loaded())
}

func TestClassifyCachesEmptyTable(t *testing.T) {
	var calls int32
	c := New(WithLoader(func(string) (mapping.Table, error) {
		atomic.AddInt32(&calls, 1)
		return mapping.Table{}, nil
	}))

	for i := 0; i < 3; i++ {
		got, err := c.Classify("empty.csv", "value")
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, c.Loaded())
}

func TestClassifyReusesTableForOtherPath(t *testing.T) {
	first := writeMapping(t, domains)
	second := writeMapping(t, `"other","yahoo\.com"`)
	c := New()

	_, err := c.Classify(first, "yahoo.com")
	require.NoError(t, err)

	got, err := c.Classify(second, "yahoo.com")
	require.NoError(t, err)
	assert.Equal(t, "yahoo.com", got)
	assert.Equal(t, first, c.cache.Source())
}

func TestClassifyConcurrentFirstCallsLoadOnce(t *testing.T) {
	path := writeMapping(t, domains)

	var calls int32
	c := New(WithLoader(func(p string) (mapping.Table, error) {
		atomic.AddInt32(&calls, 1)
		return mapping.Load(p)
	}))

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Classify(path, "news.google.com")
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, got := range results {
		assert.Equal(t, "google.com", got)
	}
}
