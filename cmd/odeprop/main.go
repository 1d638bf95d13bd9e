package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/statelab/odeprop/internal/analysis"
	"github.com/statelab/odeprop/internal/config"
	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
	"github.com/statelab/odeprop/internal/propagate"
	"github.com/statelab/odeprop/internal/storage"
	"github.com/statelab/odeprop/internal/viz"
)

var (
	dataDir    string
	step       float64
	span       float64
	method     string
	initState  []float64
	params     []string
	configFile string
	preset     string
	jsonOut    string
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odeprop",
		Short: "fixed-step ODE propagation for estimation pipelines",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odeprop", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "propagate a model and save the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runPropagation,
	}
	runCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	runCmd.Flags().Float64Var(&span, "span", config.DefaultSpan, "time span")
	runCmd.Flags().StringVar(&method, "method", "rk4", "stepping method (euler, rk4)")
	runCmd.Flags().Float64SliceVar(&initState, "init", []float64{1.0}, "initial state")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter (name=value, repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&jsonOut, "out", "", "export full trajectory to JSON file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model]",
		Short: "compare euler and rk4 error on one model",
		Args:  cobra.ExactArgs(1),
		RunE:  compareMethods,
	}
	compareCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	compareCmd.Flags().Float64Var(&span, "span", config.DefaultSpan, "time span")
	compareCmd.Flags().Float64SliceVar(&initState, "init", []float64{1.0}, "initial state")
	compareCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter (name=value, repeatable)")

	convergenceCmd := &cobra.Command{
		Use:   "convergence [model]",
		Short: "measure observed order of accuracy",
		Args:  cobra.ExactArgs(1),
		RunE:  measureConvergence,
	}
	convergenceCmd.Flags().Float64Var(&span, "span", config.DefaultSpan, "time span")
	convergenceCmd.Flags().Float64SliceVar(&initState, "init", []float64{1.0}, "initial state")
	convergenceCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter (name=value, repeatable)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "propagate with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "step size")
	liveCmd.Flags().StringVar(&method, "method", "rk4", "stepping method (euler, rk4)")
	liveCmd.Flags().Float64SliceVar(&initState, "init", []float64{1.0}, "initial state")
	liveCmd.Flags().StringArrayVar(&params, "param", nil, "model parameter (name=value, repeatable)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, compareCmd, convergenceCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed parameter %q, want name=value", pair)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// buildConfig merges preset, config file and flags in that order of
// increasing precedence: a flag the user set always wins.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
		cfg.Model = model
	}

	if cmd.Flags().Changed("step") {
		cfg.Step = step
	}
	if cmd.Flags().Changed("span") {
		cfg.Span = span
	}
	if cmd.Flags().Changed("method") {
		cfg.Method = method
	}
	if cmd.Flags().Changed("init") {
		cfg.InitState = initState
	}
	if cmd.Flags().Changed("param") {
		p, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		cfg.Params = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := propagate.NewRegistry()
	f, err := registry.GetModel(cfg.Model, cfg.Params)
	if err != nil {
		return err
	}

	integ, err := registry.GetIntegrator(cfg.Method, cfg.Step, f)
	if err != nil {
		return err
	}

	if err := propagate.CheckDimension(f, ode.State(cfg.InitState)); err != nil {
		return err
	}

	fmt.Printf("propagating %s over %.4gs with %s (h=%.4g)...\n", cfg.Model, cfg.Span, cfg.Method, cfg.Step)
	start := time.Now()

	prop := propagate.New(integ)
	result, err := prop.Run(context.Background(), cfg.Span, ode.State(cfg.InitState))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Model, cfg.Method, cfg.Step, cfg.Span, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.Overshoot > 0 {
		fmt.Printf("overshoot: %.6g past nominal span\n", result.Overshoot)
	}
	fmt.Printf("final state: %v\n", []float64(result.Final))

	if jsonOut != "" {
		if err := storage.ExportJSONFile(jsonOut, cfg.Model, cfg.Method, cfg.Step, cfg.Span, result); err != nil {
			return err
		}
		fmt.Printf("trajectory exported to %s\n", jsonOut)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tMETHOD\tSTEP\tSPAN\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4g\t%.4g\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Step,
			run.Span,
			run.StepsTaken,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s, h=%.4g)\n", meta.Model, meta.Method, meta.Step)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	const maxPlots = 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d vs time", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func analyticModel(model string, params map[string]float64) (analysis.Model, error) {
	registry := propagate.NewRegistry()
	f, err := registry.GetModel(model, params)
	if err != nil {
		return nil, err
	}
	m, ok := f.(analysis.Model)
	if !ok {
		return nil, fmt.Errorf("model %s has no closed-form solution to compare against", model)
	}
	return m, nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	p, err := parseParams(params)
	if err != nil {
		return err
	}
	m, err := analyticModel(args[0], p)
	if err != nil {
		return err
	}

	x0 := ode.State(initState)
	if err := propagate.CheckDimension(m, x0); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tORDER\tFINAL ERROR")

	for _, name := range integrators.Methods() {
		mth, err := integrators.ParseMethod(name)
		if err != nil {
			return err
		}
		dist, err := analysis.FinalError(m, mth, x0, span, step)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\n", name, mth.Order(), dist)
	}

	return w.Flush()
}

func measureConvergence(cmd *cobra.Command, args []string) error {
	p, err := parseParams(params)
	if err != nil {
		return err
	}
	m, err := analyticModel(args[0], p)
	if err != nil {
		return err
	}

	x0 := ode.State(initState)
	if err := propagate.CheckDimension(m, x0); err != nil {
		return err
	}

	sweep := []float64{0.1, 0.05, 0.025, 0.0125, 0.00625}

	for _, name := range integrators.Methods() {
		mth, err := integrators.ParseMethod(name)
		if err != nil {
			return err
		}

		c, err := analysis.MeasureConvergence(m, mth, x0, span, sweep)
		if err != nil {
			return err
		}

		fmt.Printf("%s (observed order %.2f):\n", name, c.Order)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  H\tERROR")
		for _, pt := range c.Points {
			fmt.Fprintf(w, "  %.5g\t%.3e\n", pt.H, pt.Error)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	p, err := parseParams(params)
	if err != nil {
		return err
	}

	registry := propagate.NewRegistry()
	f, err := registry.GetModel(args[0], p)
	if err != nil {
		return err
	}

	integ, err := registry.GetIntegrator(method, step, f)
	if err != nil {
		return err
	}

	if err := propagate.CheckDimension(f, ode.State(initState)); err != nil {
		return err
	}
	return viz.Run(integ, args[0], ode.State(initState), frameRate)
}
