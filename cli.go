package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivier-w/epicycles/internal/config"
	"github.com/olivier-w/epicycles/internal/epicycle"
	"github.com/olivier-w/epicycles/internal/export"
	"github.com/olivier-w/epicycles/internal/fourier"
	"github.com/olivier-w/epicycles/internal/logging"
	"github.com/olivier-w/epicycles/internal/shapes"
	"github.com/olivier-w/epicycles/internal/ui"
	"github.com/olivier-w/epicycles/internal/util"
)

// cliFlags are the persistent flags shared by every command.
type cliFlags struct {
	configPath string
	verbose    bool
	logFile    string
	pathID     string
	terms      int
	samples    int
	fit        bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "epicycles [shape|file.svg]",
		Short: "Draw any closed path with a chain of rotating circles",
		Long: `epicycles decomposes a path into Fourier components and animates the
chain of rotating arms that redraws it, right in the terminal.

Run without arguments to pick a built-in shape or an SVG file from the
current directory. Built-in shapes: ` + strings.Join(shapes.BuiltinNames(), ", ") + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			log, err := logging.ForTerminalUI(cfg.Logging, flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if len(args) == 0 {
				p := tea.NewProgram(newStartupModel(cfg, log, flags.pathID), tea.WithAltScreen())
				_, err := p.Run()
				return err
			}
			model, err := buildAnimationModel(args[0], flags.pathID, cfg, log)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "configuration file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&flags.pathID, "path-id", "", "id of the SVG path element to use (default: first path)")
	pf.IntVarP(&flags.terms, "terms", "n", 0, "number of Fourier terms to draw")
	pf.IntVar(&flags.samples, "samples", 0, "number of points sampled along the path")
	pf.BoolVar(&flags.fit, "fit", false, "scale the shape to fill the canvas instead of assuming 11 path units")

	root.AddCommand(
		newRenderCmd(flags),
		newWAVCmd(flags),
		newSpectrumCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// loadConfig reads the configuration file and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	fs := cmd.Flags()
	if fs.Changed("log-file") {
		cfg.Logging.File = flags.logFile
	}
	if fs.Changed("terms") {
		cfg.Animation.Analyzer.Terms = flags.terms
	}
	if fs.Changed("samples") {
		cfg.Animation.Analyzer.SampleCount = flags.samples
	}
	if fs.Changed("fit") {
		cfg.Animation.Analyzer.Fit = flags.fit
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// batchLogger logs to stderr unless a log file is configured.
func batchLogger(cfg *config.Config, flags *cliFlags) (*zap.Logger, error) {
	return logging.New(cfg.Logging, flags.verbose)
}

// resolveShape checks that ref names a built-in shape or an existing SVG
// file, and reports which one it is.
func resolveShape(ref string) (isFile bool, err error) {
	if _, err := shapes.Builtin(ref); err == nil {
		return false, nil
	}
	if !shapes.IsSupportedExt(filepath.Ext(ref)) {
		return false, fmt.Errorf("%w: %s (supported: %s, or one of %s)",
			shapes.ErrUnsupportedShape, ref, shapes.SupportedExtsList(), strings.Join(shapes.BuiltinNames(), ", "))
	}
	info, err := os.Stat(ref)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", ref)
	}
	return true, nil
}

func shapeTitle(ref string) string {
	return strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
}

// buildAnimationModel opens ref and prepares the animation screen, with a
// file watcher when ref is a file and watching is enabled.
func buildAnimationModel(ref, pathID string, cfg *config.Config, log *zap.Logger) (ui.Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	isFile, err := resolveShape(ref)
	if err != nil {
		return ui.Model{}, err
	}
	p, err := shapes.Open(ref, pathID)
	if err != nil {
		return ui.Model{}, err
	}

	opts := ui.Options{Title: shapeTitle(ref), PathID: pathID, Config: cfg, Log: log}
	if isFile {
		opts.Source = ref
		if cfg.Watch {
			w, err := shapes.Watch(ref, log)
			if err != nil {
				log.Warn("file watching disabled", zap.Error(err))
			} else {
				opts.Watcher = w
			}
		}
	}
	log.Info("animating shape", zap.String("shape", ref), zap.Bool("watch", opts.Watcher != nil))
	return ui.New(p, opts), nil
}

func openShape(ref, pathID string) (fourier.Path, error) {
	if _, err := resolveShape(ref); err != nil {
		return nil, err
	}
	return shapes.Open(ref, pathID)
}

func newRenderCmd(flags *cliFlags) *cobra.Command {
	var (
		out    string
		width  int
		height int
		frames int
		every  int
	)
	cmd := &cobra.Command{
		Use:   "render <shape|file.svg>",
		Short: "Render the animation to an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			log, err := batchLogger(cfg, flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if width <= 0 || height <= 0 {
				return fmt.Errorf("%w: size %dx%d must be positive", export.ErrBadOptions, width, height)
			}
			p, err := openShape(args[0], flags.pathID)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			anim, err := epicycle.NewAnimator(ctx, cfg.Animation, p, width, height)
			if err != nil {
				return err
			}
			opts := export.DefaultGIFOptions(cfg.Animation)
			if cmd.Flags().Changed("frames") {
				opts.Frames = frames
			}
			if cmd.Flags().Changed("every") {
				opts.Every = every
				opts.Delay = time.Duration(float64(every) * float64(time.Second) / cfg.Animation.FrameRate)
			}
			if out == "" {
				out = shapeTitle(args[0]) + ".gif"
			}
			return writeFile(out, func(f *os.File) error {
				return export.GIF(ctx, f, anim, opts, log)
			}, log)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: <shape>.gif)")
	cmd.Flags().IntVar(&width, "width", 500, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 300, "image height in pixels")
	cmd.Flags().IntVar(&frames, "frames", 0, "frames to run (default: settle plus one cycle)")
	cmd.Flags().IntVar(&every, "every", 0, "keep one frame out of this many (default 3)")
	return cmd
}

func newWAVCmd(flags *cliFlags) *cobra.Command {
	var (
		out       string
		rate      int
		frequency float64
		cycles    int
	)
	def := export.DefaultWAVOptions()
	cmd := &cobra.Command{
		Use:   "wav <shape|file.svg>",
		Short: "Render the shape as stereo audio for an oscilloscope in XY mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			log, err := batchLogger(cfg, flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			p, err := openShape(args[0], flags.pathID)
			if err != nil {
				return err
			}
			model, _, err := fourier.Analyze(cmd.Context(), p, cfg.Animation.Analyzer, 1)
			if err != nil {
				return err
			}
			if out == "" {
				out = shapeTitle(args[0]) + ".wav"
			}
			opts := export.WAVOptions{SampleRate: rate, Frequency: frequency, Cycles: cycles}
			return writeFile(out, func(f *os.File) error {
				return export.WAV(f, model, opts)
			}, log)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: <shape>.wav)")
	cmd.Flags().IntVar(&rate, "rate", def.SampleRate, "sample rate in Hz")
	cmd.Flags().Float64Var(&frequency, "frequency", def.Frequency, "times per second the shape is drawn")
	cmd.Flags().IntVar(&cycles, "cycles", def.Cycles, "number of times the shape is drawn")
	return cmd
}

func newSpectrumCmd(flags *cliFlags) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "spectrum <shape|file.svg>",
		Short: "Print the strongest Fourier components of a shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			p, err := openShape(args[0], flags.pathID)
			if err != nil {
				return err
			}
			model, _, err := fourier.Analyze(cmd.Context(), p, cfg.Animation.Analyzer, 300)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), spectrumTable(model, top))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 20, "number of components to list")
	return cmd
}

// spectrumTable lists up to top components of m in drawing order.
func spectrumTable(m *fourier.Model, top int) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "k", "bin", "amplitude", "phase").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i, c := range m.Components {
		if i >= top {
			break
		}
		t.Row(
			strconv.Itoa(i+1),
			fmt.Sprintf("%+d", m.Wavenumber(c)),
			strconv.Itoa(c.Freq),
			strconv.FormatFloat(c.Amp, 'f', 3, 64),
			util.FormatDegrees(c.Phase),
		)
	}
	return t.Render()
}

func newConfigCmd(flags *cliFlags) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if save {
				if err := cfg.Save(flags.configPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", flags.configPath)
				return nil
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the effective configuration to the config file")
	return cmd
}

func writeFile(path string, write func(*os.File) error, log *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("wrote file", zap.String("path", path))
	return nil
}
