package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ember/internal/config"
	"ember/internal/diag"
	"ember/internal/diagfmt"
	"ember/internal/emit"
	"ember/internal/expr"
	"ember/internal/sym"
	"ember/internal/token"
)

var exprCmd = &cobra.Command{
	Use:   "expr [flags] <expression>",
	Short: "Compile one expression and print the emitted instructions",
	Long:  `Expr scans, compiles and lists one expression against a fresh module scope`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpr,
}

func init() {
	exprCmd.Flags().String("out", "", "write the object image to this path")
	exprCmd.Flags().Bool("void", false, "discard the expression result")
}

// newSession builds the collaborator set for one CLI compile.
func newSession(cmd *cobra.Command) (*sym.Table, *emit.Assembler, *diag.Bag, config.Config, error) {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, cfg, fmt.Errorf("failed to load configuration: %w", err)
	}
	if n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); n > 0 {
		cfg.MaxDiagnostics = n
	}
	if mode, _ := cmd.Root().PersistentFlags().GetString("color"); mode != "auto" {
		cfg.Color = mode
	}
	tab := sym.NewTable()
	tab.StoreModule(sym.Module{Name: "main", Path: "<cli>", Tracker: ""})
	asm := emit.NewAssembler(cfg.Listing)
	bag := diag.NewBag(cfg.MaxDiagnostics)
	return tab, asm, bag, cfg, nil
}

func reportDiags(bag *diag.Bag, cfg config.Config, text string) {
	bag.Sort()
	bag.Dedup()
	src := func(file string, line int) string {
		if line == 1 {
			return text
		}
		return ""
	}
	diagfmt.Pretty(os.Stderr, bag, src, diagfmt.PrettyOpts{
		Color:    useColor(cfg.Color, os.Stderr),
		TabWidth: cfg.TabWidth,
	})
}

func runExpr(cmd *cobra.Command, args []string) error {
	text := args[0]
	tab, asm, bag, cfg, err := newSession(cmd)
	if err != nil {
		return err
	}

	stn, err := token.Scan("<expr>", 1, text)
	if err != nil {
		return err
	}
	scope := sym.LocalScope(0, 0)
	ex := expr.New(tab, asm, bag)

	void, _ := cmd.Flags().GetBool("void")
	var result expr.Token
	ok := false
	if void {
		ok = ex.CompileVoid(scope, stn, 0, stn.Len()-1)
	} else {
		result, ok = ex.CompileResult(scope, stn, 0, stn.Len()-1)
	}
	reportDiags(bag, cfg, text)
	if !ok {
		return fmt.Errorf("expression compile failed")
	}

	if asm.CodeLen() == 0 {
		fmt.Println("; no instructions emitted")
	} else if cfg.Listing {
		fmt.Println(asm.Listing())
	}
	if !void {
		fmt.Printf("result: %s\n", result.Print())
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := asm.CheckJumps(); err != nil {
			return err
		}
		img := asm.BuildImage("main", tab.LitStrings, tab.GlobValuePointer())
		if err := img.Save(out); err != nil {
			return fmt.Errorf("failed to write object image: %w", err)
		}
		fmt.Printf("object image written to %s (build %s)\n", out, img.BuildID)
	}
	return nil
}
