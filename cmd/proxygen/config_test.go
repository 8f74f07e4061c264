package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`
proxies:
  - interface: github.com/panagiotisptr/shimstack/examples/greeter.Greeter
    package: greeter
    name: GreeterProxy
    output: examples/greeter/greeter_proxy.go
  - interface: example.com/store.Store
    package: store
    name: StoreProxy
    output: store_proxy.go
`))
	require.NoError(t, err)
	require.Len(t, cfg.Proxies, 2)
	require.Equal(t, Proxy{
		Interface: "github.com/panagiotisptr/shimstack/examples/greeter.Greeter",
		Package:   "greeter",
		Name:      "GreeterProxy",
		Output:    "examples/greeter/greeter_proxy.go",
	}, cfg.Proxies[0])
	require.NoError(t, cfg.Proxies[1].Validate())
}

func TestParseConfig_Empty(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig([]byte("proxies: []\n"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("proxies: [\n"))
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "proxygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proxies:\n  - interface: a.B\n    package: a\n    name: BProxy\n    output: b.go\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "BProxy", cfg.Proxies[0].Name)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestProxyValidate(t *testing.T) {
	t.Parallel()

	full := Proxy{Interface: "a.B", Package: "a", Name: "P", Output: "p.go"}
	require.NoError(t, full.Validate())

	for _, p := range []Proxy{
		{Package: "a", Name: "P", Output: "p.go"},
		{Interface: "a.B", Name: "P", Output: "p.go"},
		{Interface: "a.B", Package: "a", Output: "p.go"},
		{Interface: "a.B", Package: "a", Name: "P"},
	} {
		require.Error(t, p.Validate())
	}
}
