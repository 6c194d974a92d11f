package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wkalt/fbc/dynamic"
)

var (
	jsonSchemas     []string
	jsonIncludeDirs []string
)

var jsonCmd = &cobra.Command{
	Use:   "json [buffer]",
	Short: "Decode a binary buffer to JSON using a schema",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(jsonSchemas) == 0 {
			bailf("at least one --schema is required")
		}
		cfg := loadConfig()
		includes := append(cfg.Include, jsonIncludeDirs...)
		schema, ok := compileSchemas(jsonSchemas, includes)
		if !ok {
			os.Exit(1)
		}
		transcoder, err := dynamic.NewTranscoder(schema)
		checkErr(err)
		buf, err := os.ReadFile(args[0])
		checkErr(err)
		out, err := transcoder.Transcode(buf)
		checkErr(err)
		fmt.Println(string(out))
	},
}

func init() { // nolint:gochecknoinits
	rootCmd.AddCommand(jsonCmd)
	jsonCmd.PersistentFlags().StringArrayVarP(
		&jsonSchemas, "schema", "s", nil, "schema file describing the buffer")
	jsonCmd.PersistentFlags().StringArrayVarP(
		&jsonIncludeDirs, "include", "I", nil, "directory to search for included schemas")
}
