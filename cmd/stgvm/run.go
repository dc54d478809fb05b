package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/milk9111/danmaku/prefabs"
	"github.com/milk9111/danmaku/script"
	"github.com/milk9111/danmaku/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.stgc|file.stg|file.tengo|dir...]",
	Short: "Run a stage headless",
	Long:  `Run plays a stage without a window for a number of ticks and reports entity and command counts. Scripts come from the arguments, the configured scripts dir or the embedded set`,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int("ticks", 600, "number of ticks to simulate")
	runCmd.Flags().Int("every", 60, "print stats every N ticks (0 prints only the summary)")
	runCmd.Flags().String("stage", "", "stage name, overrides the config")
	runCmd.Flags().String("mode", "", "execution mode (validating|trusted), overrides the config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ticks, _ := cmd.Flags().GetInt("ticks")
	every, _ := cmd.Flags().GetInt("every")
	if stage, _ := cmd.Flags().GetString("stage"); stage != "" {
		cfg.Stage = stage
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var descs []*script.ScriptDesc
	if len(args) > 0 {
		descs, err = loadDescs(cmd, args)
	} else {
		descs, err = prefabs.LoadScripts(cmd.Context(), cfg.ScriptsDir)
	}
	if err != nil {
		return err
	}
	m := script.NewManager()
	if err := m.Register(descs...); err != nil {
		return err
	}

	stage, err := prefabs.LoadStage(cfg.Stage)
	if err != nil {
		return err
	}
	s, err := sim.New(cfg, m, stage)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	tickColor := color.New(color.FgCyan)
	faultColor := color.New(color.FgRed, color.Bold)
	for i := 1; i <= ticks; i++ {
		s.Step()
		if every > 0 && i%every == 0 {
			tickColor.Fprintf(w, "%6d ", i)
			fmt.Fprintln(w, s.Stats())
		}
	}

	st := s.Stats()
	fmt.Fprintf(w, "stage %s: %s\n", stage.Name, st)
	if st.Faults > 0 {
		faultColor.Fprintf(w, "%d script faults\n", st.Faults)
	}
	return nil
}
