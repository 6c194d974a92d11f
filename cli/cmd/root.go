package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

/*
cmd implements the fbc command line: compiling schemas to diagnostics,
generating code, formatting schema files, and decoding binary buffers to
JSON. Defaults for the generate command can be set in an fbc.yaml in the
working directory; flags override the file.
*/

////////////////////////////////////////////////////////////////////////////////

var rootCmd = &cobra.Command{
	Use:   "fbc",
	Short: "fbc schema compiler and code generator",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// config mirrors fbc.yaml.
type config struct {
	Target  string   `yaml:"target"`
	Package string   `yaml:"package"`
	Module  string   `yaml:"module"`
	Out     string   `yaml:"out"`
	Include []string `yaml:"include"`
}

func loadConfig() config {
	cfg := config{}
	data, err := os.ReadFile("fbc.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg
		}
		checkErr(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		bailf("invalid fbc.yaml: %v", err)
	}
	return cfg
}
