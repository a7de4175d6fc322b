package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taigrr/glance/internal/config"
)

type cliFlags struct {
	config    string
	mode      string
	fps       int
	downscale int
	texture   string
	bg        string
	logFile   string
	noWatch   bool
}

func newRootCmd() *cobra.Command {
	var f cliFlags
	cmd := &cobra.Command{
		Use:   "glance <model.glb|model.gltf|model.obj>",
		Short: "Interactive 3D model viewer for the terminal",
		Long: `glance renders OBJ and glTF models in the terminal with diffuse and
specular lighting. Drag to orbit, scroll to zoom, press p for the
lighting sliders and ? for the HUD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "config file (default "+config.DefaultPath+")")
	fl.StringVarP(&f.mode, "mode", "m", "", "camera mode: turntable or firstperson")
	fl.IntVar(&f.fps, "fps", 0, "frame rate cap while interacting")
	fl.IntVar(&f.downscale, "downscale", 0, "resolution divisor for frames during a drag")
	fl.StringVarP(&f.texture, "texture", "t", "", "texture image applied to every material")
	fl.StringVar(&f.bg, "bg", "", "background color as hex, e.g. #181820")
	fl.StringVar(&f.logFile, "log", "", "write logs to this file")
	fl.BoolVar(&f.noWatch, "no-watch", false, "do not reload the model when it changes on disk")
	return cmd
}

// resolveConfig loads the config file and applies flags the user set.
func resolveConfig(cmd *cobra.Command, f cliFlags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.Load(f.config)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}

	fl := cmd.Flags()
	if fl.Changed("mode") {
		cfg.Mode = f.mode
	}
	if fl.Changed("fps") {
		cfg.FPS = f.fps
	}
	if fl.Changed("downscale") {
		cfg.Downscale = f.downscale
	}
	if fl.Changed("texture") {
		cfg.Texture = f.texture
	}
	if fl.Changed("bg") {
		cfg.Background = f.bg
	}
	if fl.Changed("log") {
		cfg.LogFile = f.logFile
	}
	if f.noWatch {
		cfg.Watch = false
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
