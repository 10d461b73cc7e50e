package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// Header 生成文件的首行标记
const Header = "// Code generated by fsmtask-gen. DO NOT EDIT."

// Generate 为目录生成处理函数表、缺省实现与分发代码
func Generate(c *Catalog) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, c); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	code, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format generated code: %w", err)
	}
	return code, nil
}

var fileTemplate = template.Must(template.New("fsmtask").Parse(Header + `

package {{.Package}}

import "fmt"

// {{.Prefix}}Handlers 全部状态×事件组合的处理函数
//
// 返回新状态及是否发生转换，返回 false 时状态保持不变。
// 新增状态或事件后重新生成，未实现的组合会导致编译失败。
type {{.Prefix}}Handlers interface {
{{- range .Pairs}}
	{{.Method}}(s {{.State.Expr}}, e {{.Event.Expr}}) ({{$.State}}, bool)
{{- end}}
}

// {{.Prefix}}Fallback 缺省处理函数，嵌入后未显式实现的组合都转发到它
type {{.Prefix}}Fallback func(s {{.State}}, e {{.Event}}) ({{.State}}, bool)
{{range .Pairs}}
func (f {{$.Prefix}}Fallback) {{.Method}}(s {{.State.Expr}}, e {{.Event.Expr}}) ({{$.State}}, bool) {
	return f(s, e)
}
{{end}}
// {{.Prefix}}NoChange 保持当前状态
func {{.Prefix}}NoChange(s {{.State}}, _ {{.Event}}) ({{.State}}, bool) {
	return s, false
}
{{- if .Entry}}

// {{.Prefix}}EntryHooks 状态进入钩子
type {{.Prefix}}EntryHooks interface {
{{- range .States}}
	Enter{{.Name}}(s {{.Expr}})
{{- end}}
}

// {{.Prefix}}EntryFallback 缺省进入钩子
type {{.Prefix}}EntryFallback func(s {{.State}})
{{range .States}}
func (f {{$.Prefix}}EntryFallback) Enter{{.Name}}(s {{.Expr}}) {
	f(s)
}
{{end}}
{{- end}}
{{- if .Exit}}

// {{.Prefix}}ExitHooks 状态退出钩子
type {{.Prefix}}ExitHooks interface {
{{- range .States}}
	Exit{{.Name}}(s {{.Expr}})
{{- end}}
}

// {{.Prefix}}ExitFallback 缺省退出钩子
type {{.Prefix}}ExitFallback func(s {{.State}})
{{range .States}}
func (f {{$.Prefix}}ExitFallback) Exit{{.Name}}(s {{.Expr}}) {
	f(s)
}
{{end}}
{{- end}}

// {{.Prefix}}Machine 按状态与事件的具体类型分发到处理函数
type {{.Prefix}}Machine struct {
	handlers {{.Prefix}}Handlers
{{- if .Entry}}
	entry {{.Prefix}}EntryHooks
{{- end}}
{{- if .Exit}}
	exit {{.Prefix}}ExitHooks
{{- end}}
}

// New{{.Prefix}}Machine 创建状态机
func New{{.Prefix}}Machine(handlers {{.Prefix}}Handlers{{if .Entry}}, entry {{.Prefix}}EntryHooks{{end}}{{if .Exit}}, exit {{.Prefix}}ExitHooks{{end}}) *{{.Prefix}}Machine {
	return &{{.Prefix}}Machine{
		handlers: handlers,
{{- if .Entry}}
		entry: entry,
{{- end}}
{{- if .Exit}}
		exit: exit,
{{- end}}
	}
}

// Initial 返回初始状态
func (m *{{.Prefix}}Machine) Initial() {{.State}} {
{{- with index .States 0}}
{{- if .Ptr}}
	return new({{.Name}})
{{- else}}
	var s {{.Name}}
	return s
{{- end}}
{{- end}}
}

// Handle 按 (状态, 事件) 的具体类型调用处理函数
func (m *{{.Prefix}}Machine) Handle(state {{.State}}, event {{.Event}}) ({{.State}}, bool) {
	switch s := state.(type) {
{{- range $s := .States}}
	case {{$s.Expr}}:
		switch e := event.(type) {
{{- range $e := $.Events}}
		case {{$e.Expr}}:
			return m.handlers.On{{$s.Name}}{{$e.Name}}(s, e)
{{- end}}
		}
{{- end}}
	}
	panic(fmt.Sprintf("{{.Package}}: unhandled event %T in state %T", event, state))
}
{{- if .Entry}}

// OnEntry 调用新状态的进入钩子
func (m *{{.Prefix}}Machine) OnEntry(state {{.State}}) {
	switch s := state.(type) {
{{- range .States}}
	case {{.Expr}}:
		m.entry.Enter{{.Name}}(s)
{{- end}}
	default:
		panic(fmt.Sprintf("{{$.Package}}: unknown state %T", state))
	}
}
{{- end}}
{{- if .Exit}}

// OnExit 调用旧状态的退出钩子
func (m *{{.Prefix}}Machine) OnExit(state {{.State}}) {
	switch s := state.(type) {
{{- range .States}}
	case {{.Expr}}:
		m.exit.Exit{{.Name}}(s)
{{- end}}
	default:
		panic(fmt.Sprintf("{{$.Package}}: unknown state %T", state))
	}
}
{{- end}}
`))
