// Copyright © 2026 The SetlX authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sebschmitt/setlX/setl"
)

var (
	cfgFile      string
	maxCallDepth int
)

// rootCmd is the base command when setlx is called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "setlx",
	Short: "setlx — a set-oriented procedural language runtime",
	Long: `setlx hosts the core runtime of a tree-walking interpreter for a small
set-oriented procedural language: procedures and closures, the scope
chain their calls run against, and the symbolic term form every runtime
value can be printed and round-tripped through.

This binary exposes the runtime's diagnostic surface. It does not parse
source files — the lexer, parser and statement evaluator are driver-level
concerns layered on top of this core.`,
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.setlx.yaml)")
	rootCmd.PersistentFlags().IntVar(&maxCallDepth, "max-call-depth", setl.MaxCallDepth, "call stack depth before a stack-overflow error is raised")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".setlx")
		}
	}
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
	if viper.IsSet("max-call-depth") {
		maxCallDepth = viper.GetInt("max-call-depth")
	}
}

func newRuntime() *setl.Runtime {
	return setl.NewConfiguredRuntime(setl.WithMaxCallDepth(maxCallDepth))
}
