// Copyright © 2026 The SetlX authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sebschmitt/setlX/setl"
)

// termCmd represents the term command
var termCmd = &cobra.Command{
	Use:   "term TERM",
	Short: "Parse a term literal, reconstruct its value, and print it back",
	Long: `term reads a single term in the wire format tag(child1,...,childk),
reconstructs the runtime value it denotes via FromTerm, and prints the
value's own to_term rendering.

This exercises the round-trip invariant directly from the command line:

  setlx term '^int("42")'
  setlx term '^list(^int("1"), ^int("2"), ^int("3"))'
  setlx term '^procedure(^tuple(), ^str("swap"))'

A term for a live scope or for a procedure's body cannot be rehydrated
(the inverse is not defined for ^scope, and procedure/closure terms carry
only their parameter list and name) — this command surfaces whatever
FromTerm is able to reconstruct, nothing more.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := setl.ParseTerm(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		v, err := setl.FromTerm(t)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("value:  %s\n", v)
		fmt.Printf("term:   %s\n", v.ToTerm())
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
}
