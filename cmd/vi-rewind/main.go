package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/vi-rewind/audio"
	"github.com/lixenwraith/vi-rewind/config"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/engine"
	"github.com/lixenwraith/vi-rewind/physics"
	"github.com/lixenwraith/vi-rewind/status"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	configPath  string
	debugMode   bool
	objectCount int
	poolSize    int
	muted       bool
	autoAdvance bool
	seed        uint64

	rootCmd = &cobra.Command{
		Use:   "vi-rewind [flags]",
		Short: "Record and rewind a rigid-body scene in the terminal",
		Long: `vi-rewind runs a small physics scene and continuously records every body
into a bounded history. Press space to stop time and scrub back through the
recording; press space again to resume simulation from the selected instant.

Examples:
  vi-rewind                              # Defaults: 60ms samples, 30s window
  vi-rewind --config rewind.json         # Load sample interval / window / speed from JSON
  vi-rewind --objects 12 --auto-advance  # Busier scene, playback runs forward on its own
  VI_REWIND_WINDOW=10 vi-rewind          # Environment overrides the config file`,
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"JSON configuration file")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false,
		"Write logs to logs/vi-rewind.log and dump metrics on exit")
	rootCmd.Flags().IntVarP(&objectCount, "objects", "n", 6,
		"Number of bodies in the scene")
	rootCmd.Flags().IntVar(&poolSize, "projectiles", 8,
		"Projectile pool size")
	rootCmd.Flags().BoolVar(&muted, "mute", false,
		"Start with audio cues muted")
	rootCmd.Flags().BoolVar(&autoAdvance, "auto-advance", false,
		"Advance playback to the next sample once the blend completes")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0,
		"Scene seed (0 = time based)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional JSON file, environment and flags
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if autoAdvance {
		cfg.AutoAdvance = true
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, _ []string) error {
	logFile := setupLogging(debugMode)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if objectCount < 0 || poolSize < 1 {
		return fmt.Errorf("need objects >= 0 and projectiles >= 1, got %d and %d", objectCount, poolSize)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	// Engine goroutines restore the terminal before reporting a panic
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mVI-REWIND CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})

	reg := status.NewRegistry()
	world := physics.NewWorld(sceneBounds)
	clock := engine.NewPausableClock()

	cues := audio.NewCuePlayer(audio.LoadConfig())
	if err := cues.Initialize(); err != nil {
		log.Printf("audio unavailable, continuing without cues: %v", err)
	}
	defer cues.Cleanup()
	cues.SetMuted(muted)
	cues.SetListener(centroid(), r3.Vec{X: 1})

	var h *host
	rw, err := engine.New(cfg, world, engine.Hooks{
		Pause: clock,
		Movement: engine.MovementBlockerFunc(func(blocked bool) {
			if h != nil {
				h.SetMovementBlocked(blocked)
			}
		}),
		Cues:   cues,
		Status: reg,
		Logger: log.Default(),
	})
	if err != nil {
		return err
	}
	defer rw.Close()

	h, err = newHost(world, rw, clock, cues, objectCount, poolSize, rand.New(rand.NewPCG(seed, seed>>1)))
	if err != nil {
		return err
	}

	view := NewView(screen, world, rw, h.launcher)
	view.Muted = cues.IsMuted

	sched := engine.NewScheduler(rw, clock, engine.SchedulerConfig{
		OnFrame:    func(dt time.Duration) { world.Step(dt.Seconds()) },
		AfterFrame: view.Draw,
		Status:     reg,
	})
	sched.Start()
	defer sched.Stop()

	log.Printf("session %s: %d bodies, %d projectiles, capacity %d, seed %d",
		rw.Session(), objectCount, poolSize, rw.Capacity(), seed)

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			fn, quit := h.command(ev)
			if quit {
				sched.Stop()
				dumpStatus(reg)
				return nil
			}
			if fn != nil && !sched.Do(fn) {
				log.Printf("command queue full, dropped key %v", ev.Name())
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
	return nil
}

// dumpStatus logs the final metrics snapshot in debug mode
func dumpStatus(reg *status.Registry) {
	if !debugMode {
		return
	}
	data, err := reg.MarshalJSON()
	if err != nil {
		log.Printf("status dump failed: %v", err)
		return
	}
	log.Printf("final status: %s", data)
}
