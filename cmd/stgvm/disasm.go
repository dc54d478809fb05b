package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/milk9111/danmaku/asm"
	"github.com/milk9111/danmaku/prefabs"
	"github.com/milk9111/danmaku/script"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file.stgc|file.stg|file.tengo...",
	Short: "Print the assembler listing of compiled scripts",
	Long:  `Disasm decodes an artifact, or compiles sources first, and prints a listing that asm accepts again`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().StringSlice("script", nil, "only list these scripts")
}

func runDisasm(cmd *cobra.Command, args []string) error {
	only, err := cmd.Flags().GetStringSlice("script")
	if err != nil {
		return fmt.Errorf("failed to get script flag: %w", err)
	}

	descs, err := loadDescs(cmd, args)
	if err != nil {
		return err
	}
	m := script.NewManager()
	if err := m.Register(descs...); err != nil {
		return err
	}

	keep := map[string]bool{}
	for _, name := range only {
		keep[name] = true
	}
	w := cmd.OutOrStdout()
	for i, d := range descs {
		if len(keep) > 0 && !keep[d.Name] {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := asm.DisassembleScript(w, d, m); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	return nil
}

// loadDescs reads a single artifact or compiles sources.
func loadDescs(cmd *cobra.Command, args []string) ([]*script.ScriptDesc, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), ".stgc") {
		return script.ReadFile(args[0])
	}
	return prefabs.CompileFiles(cmd.Context(), args...)
}
