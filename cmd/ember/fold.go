package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ember/internal/expr"
	"ember/internal/sym"
	"ember/internal/token"
)

var foldCmd = &cobra.Command{
	Use:   "fold [flags] <expression>",
	Short: "Evaluate a literal expression at compile time",
	Long:  `Fold reduces a literal expression to a single value without emitting code; anything not foldable is refused`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFold,
}

func runFold(cmd *cobra.Command, args []string) error {
	text := args[0]
	tab, asm, bag, cfg, err := newSession(cmd)
	if err != nil {
		return err
	}

	stn, err := token.Scan("<expr>", 1, text)
	if err != nil {
		return err
	}
	ex := expr.New(tab, asm, bag)
	result, ok := ex.Compute(sym.LocalScope(0, 0), stn, 0, stn.Len()-1)
	reportDiags(bag, cfg, text)
	if !ok {
		return fmt.Errorf("expression is not computable")
	}
	fmt.Println(result.Print())
	return nil
}
