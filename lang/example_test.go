package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/sulfur/lang"
)

func ExampleRun() {
	v, err := lang.Run(context.Background(), `
		func square(n) { return n * n; }
		square(7);
	`)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v)
	// Output: 49
}

func ExampleRun_console() {
	_, err := lang.Run(context.Background(),
		`let who = "world"; println("hello", who);`,
		lang.WithConsole(lang.Console{Out: os.Stdout}))
	if err != nil {
		fmt.Println(err)
	}
	// Output: hello world
}

func ExampleInterpreter_Exec() {
	in := lang.NewInterpreter()
	env := in.NewGlobalEnv()

	for _, src := range []string{"let n = 40;", "n = n + 2;", "n;"} {
		if _, err := in.Exec(context.Background(), src, env); err != nil {
			fmt.Println(err)

			return
		}
	}

	v, _ := env.Read("n")
	fmt.Println(v)
	// Output: 42
}

func ExampleProgram_Format() {
	prog, err := lang.ParseString(context.Background(),
		"let x=1+2*3; if (x > 6) { println(x); }")
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = prog.Format(context.Background(), os.Stdout, 2)
	// Output:
	// let x = 1 + (2 * 3);
	// if (x > 6) {
	//   println(x);
	// }
}

func ExampleFromNative() {
	v, err := lang.FromNative(map[string]any{"name": "sulfur", "major": 0})
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(v)
	// Output: {major: 0, name: "sulfur"}
}
