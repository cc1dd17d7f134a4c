package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/coolang/coolc/internal/cool"
	"github.com/coolang/coolc/internal/diagstore"
	"github.com/coolang/coolc/internal/prettyprinter"
	"github.com/coolang/coolc/internal/utils"
)

var traceLog = log.New(os.Stderr, "", 0)

var (
	dumpAST       bool
	trace         bool
	diagnosticsDB string
)

var rootCmd = &cobra.Command{
	Use:     "coolc [file]",
	Short:   "Cool language interpreter",
	Args:    cobra.MaximumNArgs(1),
	Version: "0.1.0",
	RunE:    run,
}

func init() {
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before the program's output")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "trace every method dispatch to stderr")
	rootCmd.Flags().StringVar(&diagnosticsDB, "diagnostics-db", "", "persist this run's diagnostics into a SQLite database at the given path")
}

// Execute runs the root command, recovering top-level panics the way the
// teacher's own main() does: print "internal error: %v" to stderr, unless
// COOL_DEBUG=1 asks for the real panic and stack trace.
func Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("COOL_DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return rootCmd.Execute()
}

func run(_ *cobra.Command, args []string) error {
	var source, label string
	if len(args) == 1 {
		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		source = string(content)
		label = utils.FileLabel(path)
	} else {
		source = sampleProgram
		label = "sample.cl"
	}

	opts := []cool.Option{cool.WithStdin(os.Stdin)}
	if trace {
		opts = append(opts, cool.WithTrace(func(class, method string, depth int) {
			traceLog.Printf("%*s-> %s.%s", depth*2, "", class, method)
		}))
	}

	interp := cool.New(opts...)
	result := interp.Run(source, label)

	if dumpAST && result.Program != nil {
		p := prettyprinter.NewTreePrinter()
		p.Print(result.Program)
		fmt.Print(p.String())
	}

	fmt.Print(result.Output)

	if diagnosticsDB != "" {
		store, err := diagstore.Open(diagnosticsDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "diagnostics-db: %v\n", err)
		} else {
			if err := store.RecordRun(result.RunID, result.Diagnostics); err != nil {
				fmt.Fprintf(os.Stderr, "diagnostics-db: %v\n", err)
			}
			store.Close()
		}
	}

	for _, d := range result.Diagnostics.Entries() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if result.Signal != nil {
		fmt.Fprintf(os.Stderr, "%s(%s): %s\n", result.Signal.Position, result.Signal.Code, result.Signal.Message)
	}

	if result.Failed() {
		return fmt.Errorf("run %s failed", label)
	}
	return nil
}

const sampleProgram = `
class Main inherits IO {
  main(): Object {
    out_string("Hello, Cool!\n")
  };
};
`
