package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wkalt/fbc/gen"
)

var (
	generateTarget      string
	generatePackage     string
	generateModule      string
	generateOut         string
	generateIncludeDirs []string
)

var generateCmd = &cobra.Command{
	Use:   "generate [schemas]",
	Short: "Generate code from schemas",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		target := firstOf(generateTarget, cfg.Target, "go")
		pkg := firstOf(generatePackage, cfg.Package, "")
		module := firstOf(generateModule, cfg.Module, "")
		out := firstOf(generateOut, cfg.Out, ".")
		includes := append(cfg.Include, generateIncludeDirs...)

		schema, ok := compileSchemas(args, includes)
		if !ok {
			os.Exit(1)
		}
		backend, err := gen.Lookup(target)
		checkErr(err)
		files, err := backend.Generate(schema, gen.Options{Package: pkg, Module: module})
		checkErr(err)
		for _, file := range files {
			path := filepath.Join(out, file.Path)
			checkErr(os.MkdirAll(filepath.Dir(path), 0o755))
			checkErr(os.WriteFile(path, file.Content, 0o644))
			fmt.Println(path)
		}
	},
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() { // nolint:gochecknoinits
	rootCmd.AddCommand(generateCmd)
	generateCmd.PersistentFlags().StringVarP(
		&generateTarget, "target", "t", "", fmt.Sprintf("generation target %v", gen.Names()))
	generateCmd.PersistentFlags().StringVarP(
		&generatePackage, "package", "p", "", "package name for declarations outside any namespace")
	generateCmd.PersistentFlags().StringVarP(
		&generateModule, "module", "m", "", "base import path for generated packages")
	generateCmd.PersistentFlags().StringVarP(
		&generateOut, "out", "o", "", "output directory")
	generateCmd.PersistentFlags().StringArrayVarP(
		&generateIncludeDirs, "include", "I", nil, "directory to search for included schemas")
}
