package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/junbin-yang/go-fsmtask/pkg/fsmtask/generator"
)

var (
	pkg    = flag.String("pkg", ".", "包路径（如：./button）")
	state  = flag.String("state", "State", "状态接口名")
	event  = flag.String("event", "Event", "事件接口名")
	prefix = flag.String("prefix", "", "生成标识符前缀（如：Button）")
	entry  = flag.Bool("entry", false, "生成进入钩子分发")
	exit   = flag.Bool("exit", false, "生成退出钩子分发")
	output = flag.String("output", "", "输出文件路径")
)

func main() {
	flag.Parse()

	if *prefix == "" {
		fmt.Println("Usage: fsmtask-gen -pkg <package> -state <iface> -event <iface> -prefix <Name> [-entry] [-exit] [-output <file>]")
		fmt.Println("\nExample:")
		fmt.Println("  fsmtask-gen -pkg . -state State -event Event -prefix Button -entry -exit -output button_gen.go")
		os.Exit(1)
	}

	catalog, err := generator.Load("", *pkg, *state, *event)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load package: %v\n", err)
		os.Exit(1)
	}
	catalog.Prefix = *prefix
	catalog.Entry = *entry
	catalog.Exit = *exit

	code, err := generator.Generate(catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, code, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated %d states x %d events written to: %s\n", len(catalog.States), len(catalog.Events), *output)
	} else {
		fmt.Println(string(code))
	}
}
