package template

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"
	"unicode"

	"github.com/grugslair/blob-arena-contracts/internal/calldata"
	"github.com/grugslair/blob-arena-contracts/internal/usecase"
	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
)

const bindingsTemplate = `// Code generated by sai bindgen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/grugslair/blob-arena-contracts/pkg/cairo"
	"github.com/grugslair/blob-arena-contracts/pkg/starknet"
)

// {{.TypeName}}ABI is the ABI of {{.Tag}} (class {{.ClassHash}}).
const {{.TypeName}}ABI = {{printf "%q" .ABI}}

// {{.TypeName}} prepares calls to a {{.Tag}} contract.
type {{.TypeName}} struct {
	Address *felt.Felt
	abi     *cairo.ABI
}

// New{{.TypeName}} binds the ABI to a deployed instance.
func New{{.TypeName}}(address *felt.Felt) (*{{.TypeName}}, error) {
	abi, err := cairo.ParseABI([]byte({{.TypeName}}ABI))
	if err != nil {
		return nil, err
	}
	return &{{.TypeName}}{Address: address, abi: abi}, nil
}

// ABI returns the parsed ABI, for decoding view results.
func (c *{{.TypeName}}) ABI() *cairo.ABI {
	return c.abi
}

func (c *{{.TypeName}}) call(entrypoint string, args ...any) (starknet.Call, error) {
	calldata, err := c.abi.EncodeInputs(entrypoint, args)
	if err != nil {
		return starknet.Call{}, err
	}
	return starknet.Call{To: c.Address, Selector: starknet.Selector(entrypoint), Calldata: calldata}, nil
}
{{range .Functions}}
// {{method .Name}} prepares {{.Name}}({{signature .}}){{if .IsView}}, a view{{end}}.
func (c *{{$.TypeName}}) {{method .Name}}({{params .}}) (starknet.Call, error) {
	return c.call({{printf "%q" .Name}}{{args .}})
}
{{end}}`

// BindingsGeneratorAdapter renders Go bindings using Go templates
type BindingsGeneratorAdapter struct {
	tmpl *template.Template
}

// NewBindingsGeneratorAdapter creates a new bindings generator
func NewBindingsGeneratorAdapter() *BindingsGeneratorAdapter {
	funcs := template.FuncMap{
		"method":    calldata.Pascal,
		"signature": signature,
		"params":    params,
		"args":      args,
	}
	return &BindingsGeneratorAdapter{
		tmpl: template.Must(template.New("bindings").Funcs(funcs).Parse(bindingsTemplate)),
	}
}

// GenerateBindings renders and formats the bindings source
func (g *BindingsGeneratorAdapter) GenerateBindings(ctx context.Context, spec *usecase.BindingSpec) (string, error) {
	if !token.IsIdentifier(spec.Package) {
		return "", fmt.Errorf("invalid package name %q", spec.Package)
	}
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to execute bindings template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to format bindings: %w", err)
	}
	return string(src), nil
}

func signature(fn *cairo.Function) string {
	parts := make([]string, len(fn.Inputs))
	for i, in := range fn.Inputs {
		parts[i] = fmt.Sprintf("%s: %s", in.Name, in.Type)
	}
	return strings.Join(parts, ", ")
}

func params(fn *cairo.Function) string {
	names := argNames(fn)
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, ", ") + " any"
}

func args(fn *cairo.Function) string {
	var b strings.Builder
	for _, name := range argNames(fn) {
		b.WriteString(", ")
		b.WriteString(name)
	}
	return b.String()
}

// argNames converts input names to unique lowerCamel Go identifiers
func argNames(fn *cairo.Function) []string {
	seen := map[string]bool{"c": true}
	names := make([]string, len(fn.Inputs))
	for i, in := range fn.Inputs {
		name := lowerCamel(calldata.Pascal(in.Name))
		if name == "" || !token.IsIdentifier(name) || token.IsKeyword(name) {
			name = fmt.Sprintf("arg%d", i)
		}
		for seen[name] {
			name += "_"
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

func lowerCamel(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Ensure the adapter implements the interface
var _ usecase.BindingGenerator = (*BindingsGeneratorAdapter)(nil)
