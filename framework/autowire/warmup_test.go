package autowire_test

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-autowire/framework/autowire"
	"github.com/km-arc/go-autowire/framework/container"
)

func TestWarmup_FillsAndPersistsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autowire.cache.yaml")
	catalog := newCatalog(t)
	factory := autowire.NewFactory(catalog)
	factory.EnableCache(path)

	require.NoError(t, autowire.Warmup(newHost(factory), catalog.Names(), discard()))

	pc := autowire.NewParameterCache()
	require.NoError(t, pc.LoadFrom(path))
	assert.ElementsMatch(t, catalog.Names(), pc.Keys())
}

func TestWarmup_StopsAtFirstFailure(t *testing.T) {
	catalog := newCatalog(t)
	broken := catalog.MustProvide(func(_ any) *Target { return &Target{} })
	factory := autowire.NewFactory(catalog)
	c := newHost(factory)

	err := autowire.Warmup(c, []string{autowire.NameOf[QuxService](), broken, autowire.NameOf[BarService]()}, discard())

	require.ErrorIs(t, err, autowire.ErrUnresolvableParameter)
	assert.Contains(t, err.Error(), `warm up "`+broken+`"`)
	assert.True(t, c.Resolved(autowire.NameOf[QuxService]()))
	assert.False(t, c.Resolved(autowire.NameOf[BarService]()))
}

func TestWarmup_UnboundName(t *testing.T) {
	err := autowire.Warmup(container.New(), []string{"nothing"}, discard())

	require.ErrorIs(t, err, container.ErrNotBound)
}

func TestWarmup_LogsEachType(t *testing.T) {
	catalog := newCatalog(t)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	require.NoError(t, autowire.Warmup(newHost(autowire.NewFactory(catalog)), catalog.Names(), logger))

	for _, name := range catalog.Names() {
		assert.Contains(t, logs.String(), "type="+name)
	}
	assert.Equal(t, len(catalog.Names()), bytes.Count(logs.Bytes(), []byte("autowire: resolved")))
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
