package main

import (
	"fmt"

	"github.com/milk9111/danmaku/prefabs"
	"github.com/milk9111/danmaku/script"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] file.stg|file.tengo|dir...",
	Short: "Compile script sources to a bytecode artifact",
	Long:  `Asm assembles .stg sources and runs .tengo generators, links the result and writes a msgpack artifact`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsm,
}

func init() {
	asmCmd.Flags().StringP("output", "o", "scripts.stgc", "artifact path")
}

func runAsm(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	descs, err := prefabs.CompileFiles(cmd.Context(), args...)
	if err != nil {
		return err
	}
	if err := script.WriteFile(out, descs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d scripts to %s\n", len(descs), out)
	return nil
}
