package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const greeterPath = "github.com/panagiotisptr/shimstack/examples/greeter.Greeter"

func TestMethodData_Signature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    MethodData
		want string
	}{
		{MethodData{Name: "Reset"}, "Reset()"},
		{MethodData{Name: "Greet", Params: []MethodParam{"string"}, Rets: []string{"string"}}, "Greet(a0 string) string"},
		{
			MethodData{Name: "Join", Params: []MethodParam{"string", "...string"}, Rets: []string{"string", "error"}},
			"Join(a0 string, a1 ...string) (string, error)",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.m.Signature())
	}
}

func TestMethodData_ImplCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    MethodData
		want string
	}{
		{MethodData{Name: "Reset"}, "p.impl.Reset()\nreturn nil, nil"},
		{MethodData{Name: "Close", Rets: []string{"error"}}, "return nil, p.impl.Close()"},
		{
			MethodData{Name: "Greet", Params: []MethodParam{"string"}, Rets: []string{"string"}},
			"return p.impl.Greet(caster.Index[string](args, 0)), nil",
		},
		{
			MethodData{Name: "Join", Params: []MethodParam{"string", "...string"}, Rets: []string{"string", "error"}},
			"return p.impl.Join(caster.Index[string](args, 0), caster.Index[[]string](args, 1)...)",
		},
		{
			MethodData{Name: "Split", Params: []MethodParam{"string"}, Rets: []string{"string", "int", "error"}},
			"r0, r1, err := p.impl.Split(caster.Index[string](args, 0))\nreturn []interface{}{r0, r1}, err",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.m.ImplCall())
	}
}

func TestMethodData_ProxyBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    MethodData
		want string
	}{
		{MethodData{Name: "Reset"}, "if _, err := p.Object.CallWith(p, \"Reset\"); err != nil {\npanic(err)\n}"},
		{MethodData{Name: "Close", Rets: []string{"error"}}, "_, err := p.Object.CallWith(p, \"Close\")\nreturn err"},
		{
			MethodData{Name: "Greet", Params: []MethodParam{"string"}, Rets: []string{"string"}},
			"out, err := p.Object.CallWith(p, \"Greet\", a0)\nif err != nil {\npanic(err)\n}\nreturn caster.Cast[string](out)",
		},
		{
			MethodData{Name: "Split", Params: []MethodParam{"string"}, Rets: []string{"string", "string"}},
			"out, err := p.Object.CallWith(p, \"Split\", a0)\nif err != nil {\npanic(err)\n}\nreturn caster.Index[string](out, 0), caster.Index[string](out, 1)",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.m.ProxyBody())
	}
}

func TestRender_SamePackage(t *testing.T) {
	src, err := NewGenerator().Render(greeterPath, "greeter", "GreeterProxy")
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "// Code generated by proxygen. DO NOT EDIT.")
	require.Contains(t, out, "package greeter")
	require.Contains(t, out, "var _ Greeter = (*GreeterProxy)(nil)")
	require.Contains(t, out, "func (p *GreeterProxy) Join(a0 string, a1 ...string) (string, error) {")
	require.Contains(t, out, `p.Object.Set("Split"`)
	require.NotContains(t, out, `"github.com/panagiotisptr/shimstack/examples/greeter"`)
}

func TestRender_MatchesCheckedInProxy(t *testing.T) {
	src, err := NewGenerator().Render(greeterPath, "greeter", "GreeterProxy")
	require.NoError(t, err)

	checkedIn, err := os.ReadFile(filepath.Join("..", "examples", "greeter", "greeter_proxy.go"))
	require.NoError(t, err)
	require.Equal(t, string(checkedIn), string(src))
}

func TestRender_OtherPackage(t *testing.T) {
	src, err := NewGenerator().Render(greeterPath, "proxies", "Greeter")
	require.NoError(t, err)

	out := string(src)
	require.Contains(t, out, "package proxies")
	require.Contains(t, out, `importgreeterGreeter0 "github.com/panagiotisptr/shimstack/examples/greeter"`)
	require.Contains(t, out, "func NewGreeter(impl importgreeterGreeter0.Greeter) *Greeter {")
}

func TestRender_Errors(t *testing.T) {
	g := NewGenerator()

	_, err := g.Render("NoPackage", "x", "X")
	require.Error(t, err)

	_, err = g.Render("github.com/panagiotisptr/shimstack/examples/greeter.Missing", "x", "X")
	require.Error(t, err)
}

func TestGenerateProxy_WritesFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "proxy.go")

	err := NewGenerator().GenerateProxy(greeterPath, "proxies", "Greeter", output)
	require.NoError(t, err)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(written), "type Greeter struct {")
}
