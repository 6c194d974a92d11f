package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wkalt/fbc/compile"
	"github.com/wkalt/fbc/ir"
	"github.com/wkalt/fbc/util"
)

var compileIncludeDirs []string

var compileCmd = &cobra.Command{
	Use:   "compile [schemas]",
	Short: "Check schemas and report diagnostics",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		includes := append(cfg.Include, compileIncludeDirs...)
		schema, ok := compileSchemas(args, includes)
		if !ok {
			os.Exit(1)
		}
		groups := util.GroupBy(schema.Decls, func(d ir.Decl) ir.DeclKind { return d.Kind() })
		fmt.Printf("ok: %d enums, %d unions, %d structs, %d tables, %d services\n",
			len(groups[ir.KindEnum]), len(groups[ir.KindUnion]), len(groups[ir.KindStruct]),
			len(groups[ir.KindTable]), len(groups[ir.KindService]))
	},
}

// compileSchemas loads, parses, and compiles, printing each diagnostic on its
// own line. Diagnostics are not fatal to the process here so callers can
// decide the exit path.
func compileSchemas(paths, includeDirs []string) (*ir.Schema, bool) {
	units, err := compile.LoadFiles(paths, includeDirs)
	if err != nil {
		printDiagnostics(err)
		return nil, false
	}
	schema, err := compile.Compile(units...)
	if err != nil {
		printDiagnostics(err)
		return nil, false
	}
	return schema, true
}

func printDiagnostics(err error) {
	red := color.New(color.FgRed).SprintFunc()
	var list compile.ErrorList
	if !errors.As(err, &list) {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		return
	}
	for _, diag := range list {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), diag)
	}
	fmt.Fprintf(os.Stderr, "%d errors\n", len(list))
}

func init() { // nolint:gochecknoinits
	rootCmd.AddCommand(compileCmd)
	compileCmd.PersistentFlags().StringArrayVarP(
		&compileIncludeDirs, "include", "I", nil, "directory to search for included schemas")
}
