// Package templates holds the source templates rendered by package generate.
package templates

// ProxyTemplate renders a proxy whose methods run through interceptor
// stacks on its Object. It is executed with generate.ProxyData.
const ProxyTemplate = `// Code generated by proxygen. DO NOT EDIT.

package {{.PackageName}}

import (
{{- if .UsesCaster}}
	"github.com/panagiotisptr/shimstack/caster"
{{- end}}
	"github.com/panagiotisptr/shimstack/interceptor"
{{- range .Imports}}
	{{.Alias}} "{{.Path}}"
{{- end}}
)

// {{.Name}} proxies {{.InterfaceName}}. Every method is a method of Object,
// so interceptors added with interceptor.Method(p.Object, "<Method>", ...)
// run around the wrapped implementation. The proxy is the call context.
// Methods without an error result panic when the stack returns an error.
type {{.Name}} struct {
	Object *interceptor.Object
	impl   {{.ImplementationType}}
}

var _ {{.ImplementationType}} = (*{{.Name}})(nil)

// New{{.Name}} wraps impl.
func New{{.Name}}(impl {{.ImplementationType}}) *{{.Name}} {
	p := &{{.Name}}{
		Object: interceptor.NewObject(nil),
		impl:   impl,
	}
{{- range .Methods}}
	p.Object.Set("{{.Name}}", interceptor.Handler(func(_ interface{}, args []interface{}) (interface{}, error) {
		{{.ImplCall}}
	}))
{{- end}}

	return p
}
{{range .Methods}}
// {{.Name}} implements {{$.InterfaceName}}.
func (p *{{$.Name}}) {{.Signature}} {
	{{.ProxyBody}}
}
{{end}}`
