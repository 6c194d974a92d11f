package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wkalt/fbc/fbs"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [schemas]",
	Short: "Format schema files canonically",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, path := range args {
			data, err := os.ReadFile(path)
			checkErr(err)
			schema, err := fbs.Parse(path, string(data))
			checkErr(err)
			formatted := fbs.Format(schema)
			if fmtWrite {
				checkErr(os.WriteFile(path, []byte(formatted), 0o644))
				continue
			}
			fmt.Print(formatted)
		}
	},
}

func init() { // nolint:gochecknoinits
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.PersistentFlags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite files in place")
}
