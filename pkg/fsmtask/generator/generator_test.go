package generator

import (
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buttonCatalog() *Catalog {
	return &Catalog{
		Package: "button",
		Prefix:  "Button",
		State:   "State",
		Event:   "Event",
		States:  []Variant{{Name: "Idle"}, {Name: "Pressed"}},
		Events:  []Variant{{Name: "Press"}, {Name: "Release"}, {Name: "Timer"}},
		Entry:   true,
		Exit:    true,
	}
}

func TestGenerate(t *testing.T) {
	code, err := Generate(buttonCatalog())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	codeStr := string(code)
	checks := []string{
		Header,
		"package button",
		"type ButtonHandlers interface",
		"OnIdlePress(s Idle, e Press) (State, bool)",
		"OnPressedTimer(s Pressed, e Timer) (State, bool)",
		"type ButtonFallback func(s State, e Event) (State, bool)",
		"func ButtonNoChange(s State, _ Event) (State, bool)",
		"type ButtonEntryHooks interface",
		"type ButtonExitHooks interface",
		"func NewButtonMachine(handlers ButtonHandlers, entry ButtonEntryHooks, exit ButtonExitHooks) *ButtonMachine",
		"var s Idle",
		"return m.handlers.OnPressedRelease(s, e)",
		"func (m *ButtonMachine) OnEntry(state State)",
		"func (m *ButtonMachine) OnExit(state State)",
	}
	for _, check := range checks {
		if !strings.Contains(codeStr, check) {
			t.Errorf("Generated code missing: %s", check)
		}
	}

	if n := strings.Count(codeStr, "func (f ButtonFallback)"); n != 6 {
		t.Errorf("期望 6 个缺省处理方法, got %d", n)
	}

	if _, err := parser.ParseFile(token.NewFileSet(), "button_gen.go", code, parser.AllErrors); err != nil {
		t.Errorf("生成的代码无法解析: %v", err)
	}
}

func TestGenerate_WithoutHooks(t *testing.T) {
	c := buttonCatalog()
	c.Entry, c.Exit = false, false

	code, err := Generate(c)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	codeStr := string(code)
	for _, absent := range []string{"OnEntry", "OnExit", "EntryHooks", "ExitHooks"} {
		if strings.Contains(codeStr, absent) {
			t.Errorf("关闭钩子后不应生成 %s", absent)
		}
	}
	if !strings.Contains(codeStr, "func NewButtonMachine(handlers ButtonHandlers) *ButtonMachine") {
		t.Error("构造函数签名错误")
	}
}

func TestGenerate_PointerVariant(t *testing.T) {
	c := buttonCatalog()
	c.States[0].Ptr = true

	code, err := Generate(c)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	codeStr := string(code)
	for _, check := range []string{"return new(Idle)", "case *Idle:", "OnIdlePress(s *Idle, e Press)"} {
		if !strings.Contains(codeStr, check) {
			t.Errorf("Generated code missing: %s", check)
		}
	}
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Catalog)
	}{
		{"无状态", func(c *Catalog) { c.States = nil }},
		{"无事件", func(c *Catalog) { c.Events = nil }},
		{"前缀未导出", func(c *Catalog) { c.Prefix = "button" }},
		{"非法包名", func(c *Catalog) { c.Package = "my-pkg" }},
		{"重复状态", func(c *Catalog) { c.States = append(c.States, Variant{Name: "Idle"}) }},
		{"方法名冲突", func(c *Catalog) {
			c.States = []Variant{{Name: "A"}, {Name: "AB"}}
			c.Events = []Variant{{Name: "BC"}, {Name: "C"}}
		}},
	}

	for _, tt := range tests {
		c := buttonCatalog()
		tt.modify(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: 期望返回错误", tt.name)
		}
		if _, err := Generate(c); err == nil {
			t.Errorf("%s: Generate 应拒绝非法目录", tt.name)
		}
	}

	if err := buttonCatalog().Validate(); err != nil {
		t.Errorf("合法目录校验失败: %v", err)
	}
}

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not found")
	}
}

// 仓库中的示例生成文件与当前生成器输出一致
func TestGenerate_ExampleUpToDate(t *testing.T) {
	requireGo(t)

	dir := filepath.Join("..", "..", "..", "examples", "fsmtask_example", "button")
	c, err := Load(dir, ".", "State", "Event")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if names(c.States) != "Idle,Pressed" || names(c.Events) != "Press,Release,Timer" {
		t.Fatalf("目录顺序错误: states=%s events=%s", names(c.States), names(c.Events))
	}

	c.Prefix, c.Entry, c.Exit = "Button", true, true
	code, err := Generate(c)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	checkedIn, err := os.ReadFile(filepath.Join(dir, "button_gen.go"))
	if err != nil {
		t.Fatalf("读取生成文件失败: %v", err)
	}
	if normalize(string(code)) != normalize(string(checkedIn)) {
		t.Errorf("button_gen.go 已过期，请执行 go generate")
	}
}

// 缺少处理函数且未嵌入缺省处理时编译失败，嵌入后编译通过
func TestGeneratedCodeExhaustive(t *testing.T) {
	requireGo(t)

	tmpDir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	write("go.mod", "module lamp\n\ngo 1.21\n")
	write("catalog.go", `package lamp

type State interface{ isState() }

type Off struct{}
type On struct{}

func (Off) isState() {}
func (On) isState()  {}

type Event interface{ isEvent() }

type Toggle struct{}

func (Toggle) isEvent() {}
`)

	c, err := Load(tmpDir, ".", "State", "Event")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Package != "lamp" || names(c.States) != "Off,On" || names(c.Events) != "Toggle" {
		t.Fatalf("目录错误: %+v", c)
	}

	c.Prefix = "Lamp"
	code, err := Generate(c)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	write("lamp_gen.go", string(code))

	build := func() (string, error) {
		cmd := exec.Command("go", "build", "./...")
		cmd.Dir = tmpDir
		cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
		out, err := cmd.CombinedOutput()
		return string(out), err
	}

	write("handlers.go", `package lamp

type partial struct{}

func (partial) OnOffToggle(Off, Toggle) (State, bool) { return On{}, true }

var _ = NewLampMachine(partial{})
`)
	out, err := build()
	if err == nil {
		t.Fatal("缺少 OnOnToggle 时应编译失败")
	}
	if !strings.Contains(out, "OnOnToggle") {
		t.Errorf("编译错误应指出缺少的组合:\n%s", out)
	}

	write("handlers.go", `package lamp

type partial struct {
	LampFallback
}

func (partial) OnOffToggle(Off, Toggle) (State, bool) { return On{}, true }

var _ = NewLampMachine(partial{LampFallback: LampNoChange})
`)
	if out, err := build(); err != nil {
		t.Fatalf("嵌入缺省处理后应编译通过:\n%s\nError: %v", out, err)
	}
}

func names(vs []Variant) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Expr()
	}
	return strings.Join(parts, ",")
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
