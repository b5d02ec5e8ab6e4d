// methodlint validates method registration config files without touching a
// database or server. Intended for CI: exit 0 when every declaration is
// valid, exit 1 otherwise, with one line per defect.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
	"github.com/y149604146/qwen-agent-scheduler/internal/infra/configfile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("methodlint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	quiet := fs.Bool("quiet", false, "Only report defects, no per-method OK lines")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(errOut, "usage: methodlint [-quiet] <methods.json|methods.yaml> ...") //nolint:errcheck
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: methodlint [-quiet] <methods.json|methods.yaml> ...") //nolint:errcheck
		return 2
	}

	exitCode := 0
	for _, path := range fs.Args() {
		if !lintFile(path, *quiet, out, errOut) {
			exitCode = 1
		}
	}
	return exitCode
}

// lintFile validates one config file and reports whether it is clean.
func lintFile(path string, quiet bool, out, errOut io.Writer) bool {
	decls, err := configfile.LoadMethods(path)
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", path, err) //nolint:errcheck
		return false
	}

	clean := true
	for _, result := range method.ValidateAll(decls) {
		name := result.MethodName
		if name == "" {
			name = "(unnamed)"
		}
		if result.Valid {
			if !quiet {
				fmt.Fprintf(out, "%s: %s OK\n", path, name) //nolint:errcheck
			}
			continue
		}
		clean = false
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "%s: %s: %s\n", path, name, msg) //nolint:errcheck
		}
	}
	return clean
}
