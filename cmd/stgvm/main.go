package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/milk9111/danmaku/config"
	"github.com/milk9111/danmaku/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:           "stgvm",
	Short:         "Assemble, inspect and run danmaku behavior scripts",
	Long:          `stgvm compiles entity behavior scripts to bytecode, disassembles them and runs stages headless`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, _ := cmd.Flags().GetString("color")
		switch colorFlag {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !isTerminal(os.Stdout)
		}
		level, _ := cmd.Flags().GetString("log-level")
		logger.Init(level, color.NoColor)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(asmCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("config", "danmaku.toml", "path to the TOML config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
