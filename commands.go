package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-pattern/config"
	"go-pattern/debug"
	"go-pattern/midi"
	"go-pattern/patfile"
	"go-pattern/pattern"
	"go-pattern/theme"
	"go-pattern/tui"
)

type app struct {
	cfgPath string
	debug   bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "go-pattern",
		Short:             "Convert, rotate and order MIDI step patterns",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ~/.config/go-pattern/config.json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "write ~/.config/go-pattern/debug.log")

	root.AddCommand(
		a.convertCmd(),
		a.offsetCmd(),
		a.adjustCmd(),
		a.sortCmd(),
		a.exportCmd(),
		a.viewCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgPath != "" {
		a.cfg, err = config.LoadFrom(a.cfgPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.debug || a.cfg.Debug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
	}
	debug.Log("cli", "%s %v", cmd.Name(), args)
	return nil
}

func (a *app) saveConfig() error {
	if a.cfgPath != "" {
		return a.cfg.SaveTo(a.cfgPath)
	}
	return a.cfg.Save()
}

// load reads the pattern named by args, or the configured default.
func (a *app) load(args []string) (string, *pattern.StepBuffer, error) {
	path := a.cfg.PatternFile
	if len(args) > 0 {
		path = args[0]
	}
	f, err := patfile.Load(path)
	if err != nil {
		return "", nil, err
	}
	var steps pattern.StepBuffer
	if err := f.Steps(a.cfg.DefaultPort, &steps); err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	name := f.Name
	if name == "" {
		name = path
	}
	return name, &steps, nil
}

func printEvents(w io.Writer, evs []pattern.AbsEvent, length uint16) {
	fmt.Fprintf(w, "L=%d\n", length)
	for i, ev := range evs {
		fmt.Fprintf(w, "%2d  t=%-5d %s\n", i, ev.Time, midi.Describe(ev.Event))
	}
}

func (a *app) convertCmd() *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "convert [pattern.yaml]",
		Short: "Print the absolute time of every step",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, steps, err := a.load(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if inPlace {
				s := steps.Steps()
				length, err := pattern.ConvertInPlace(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "L=%d\n", length)
				for i, st := range s {
					fmt.Fprintf(out, "%2d  t=%-5d %s\n", i, st.Delay, midi.Describe(st.Event))
				}
				return nil
			}

			var abs pattern.AbsBuffer
			length, err := pattern.Convert(steps.Steps(), &abs)
			if err != nil {
				return err
			}
			printEvents(out, abs.Events(), length)
			return nil
		},
	}
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "reuse the step delays for the times")
	return cmd
}

func (a *app) offsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offset POSITION OFFSET LENGTH",
		Short: "Shift one tick position around a pattern of the given length",
		Long: `Shift one tick position around a pattern of the given length.

A negative offset looks like a flag; put "--" before the arguments.`,
		Example: "  go-pattern offset 4 3 6\n  go-pattern offset -- 0 -1 6",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return fmt.Errorf("position: %w", err)
			}
			off, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("offset: %w", err)
			}
			length, err := strconv.ParseUint(args[2], 10, 16)
			if err != nil {
				return fmt.Errorf("length: %w", err)
			}
			p, err := pattern.TimeOffset(uint16(pos), int32(off), uint16(length))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

// shifted loads a pattern, adjusts it and optionally sorts it.
func (a *app) shifted(args []string, offset int32, sort, stable bool) (*pattern.AbsBuffer, uint16, error) {
	_, steps, err := a.load(args)
	if err != nil {
		return nil, 0, err
	}
	var abs pattern.AbsBuffer
	length, err := pattern.Adjust(steps.Steps(), offset, &abs)
	if err != nil {
		return nil, 0, err
	}
	switch {
	case stable:
		err = abs.SortStable()
	case sort:
		err = abs.Sort()
	}
	if err != nil {
		return nil, 0, err
	}
	return &abs, length, nil
}

func (a *app) adjustCmd() *cobra.Command {
	var offset int32
	var sort, stable bool
	cmd := &cobra.Command{
		Use:   "adjust [pattern.yaml]",
		Short: "Rotate a pattern by an offset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, length, err := a.shifted(args, offset, sort, stable)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), abs.Events(), length)
			return nil
		},
	}
	cmd.Flags().Int32VarP(&offset, "offset", "o", 0, "ticks to shift by, negative moves earlier")
	cmd.Flags().BoolVar(&sort, "sort", false, "order the result by time")
	cmd.Flags().BoolVar(&stable, "stable", false, "order by time, keeping step order on ties")
	return cmd
}

func (a *app) sortCmd() *cobra.Command {
	var offset int32
	var stable bool
	cmd := &cobra.Command{
		Use:   "sort [pattern.yaml]",
		Short: "Print a pattern in time order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, length, err := a.shifted(args, offset, true, stable)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), abs.Events(), length)
			return nil
		},
	}
	cmd.Flags().Int32VarP(&offset, "offset", "o", 0, "ticks to shift by before sorting")
	cmd.Flags().BoolVar(&stable, "stable", false, "keep step order on ties")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		offset  int32
		outPath string
		repeats int
		tempo   float64
	)
	cmd := &cobra.Command{
		Use:   "export [pattern.yaml]",
		Short: "Write a pattern as a Standard MIDI File",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, steps, err := a.load(args)
			if err != nil {
				return err
			}
			var abs pattern.AbsBuffer
			length, err := pattern.Adjust(steps.Steps(), offset, &abs)
			if err != nil {
				return err
			}

			opts := midi.DefaultExportOptions()
			opts.Name = name
			if e := a.cfg.Export; e.Resolution > 0 {
				opts.Resolution = e.Resolution
			}
			if e := a.cfg.Export; e.Clocks > 0 {
				opts.Clocks = e.Clocks
			}
			if a.cfg.Export.Tempo > 0 {
				opts.Tempo = a.cfg.Export.Tempo
			}
			if a.cfg.Export.Repeats > 0 {
				opts.Repeats = a.cfg.Export.Repeats
			}
			if repeats > 0 {
				opts.Repeats = repeats
			}
			if tempo > 0 {
				opts.Tempo = tempo
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := midi.WriteSMF(f, abs.Events(), length, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d events, L=%d, x%d)\n", outPath, abs.Len(), length, opts.Repeats)
			return nil
		},
	}
	cmd.Flags().Int32Var(&offset, "offset", 0, "ticks to shift by")
	cmd.Flags().StringVarP(&outPath, "out", "o", "pattern.mid", "output file")
	cmd.Flags().IntVar(&repeats, "repeats", 0, "loop cycles to write (config default if 0)")
	cmd.Flags().Float64Var(&tempo, "tempo", 0, "bpm (config default if 0)")
	return cmd
}

func (a *app) viewCmd() *cobra.Command {
	var offset int32
	cmd := &cobra.Command{
		Use:   "view [pattern.yaml]",
		Short: "Interactively rotate and step through a pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, steps, err := a.load(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("offset") {
				offset = a.cfg.UI.LastOffset
			}
			th, err := theme.Load(a.cfg.UI.PalettePath)
			if err != nil {
				return err
			}
			m, err := tui.NewModel(name, steps.Steps(), offset, a.cfg.UI.StableSort, th)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(tui.Model); ok {
				a.cfg.UI.LastOffset = fm.Offset()
				a.cfg.UI.StableSort = fm.Stable()
				if err := a.saveConfig(); err != nil {
					debug.Log("cli", "save config: %v", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int32VarP(&offset, "offset", "o", 0, "starting offset (last used if unset)")
	return cmd
}
