// Command oxy-anim drives the skeletal animation pipeline headlessly: it loads a skinned
// glTF asset (or builds a demo arm), spawns animated instances and samples them at a fixed
// tick rate, logging throughput along the way.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ── Layout ─────────────────────────────────────────────────────────
const (
	// gridSpacing is the distance between neighbouring instances on the XZ plane.
	gridSpacing = 2.0
	// gridSide is the number of instances per row.
	gridSide = 32
)

// summary is what a finished run reports.
type summary struct {
	Model     string
	Clip      string
	Instances int
	Joints    int
	Frames    int
	Simulated float64
	Wall      time.Duration
	// VertexStride is the byte stride of the skinned vertex layout handed to renderers.
	VertexStride uint64
	// Tip is the model-space position of the last joint of the first instance.
	Tip mgl32.Vec3
}

func main() {
	configPath := flag.String("config", "", "path to a .toml or .yaml run configuration")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	mdl, err := loadModel(cfg)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	res, err := run(cfg, mdl, true)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Println("╔══════════════════════════════════════════════════════╗")
	fmt.Println("║  Oxy Anim - Headless Run                             ║")
	fmt.Println("╠══════════════════════════════════════════════════════╣")
	fmt.Printf("║  Model:     %-41s║\n", res.Model)
	fmt.Printf("║  Clip:      %-41s║\n", res.Clip)
	fmt.Printf("║  Instances: %-41d║\n", res.Instances)
	fmt.Printf("║  Joints:    %-41d║\n", res.Joints)
	fmt.Printf("║  Frames:    %-41d║\n", res.Frames)
	fmt.Printf("║  Simulated: %-41s║\n", fmt.Sprintf("%.3fs", res.Simulated))
	fmt.Printf("║  Wall:      %-41s║\n", res.Wall.Round(time.Millisecond))
	fmt.Printf("║  Stride:    %-41s║\n", fmt.Sprintf("%d bytes/vertex", res.VertexStride))
	fmt.Printf("║  Tip:       %-41s║\n", fmt.Sprintf("(%.3f, %.3f, %.3f)", res.Tip[0], res.Tip[1], res.Tip[2]))
	fmt.Println("╚══════════════════════════════════════════════════════╝")
}

// loadModel imports the configured asset, or builds the demo arm when none is set.
func loadModel(cfg config.Config) (model.Model, error) {
	if cfg.Asset == "" {
		log.Printf("[Main] no asset configured, using the demo arm")
		return demoArm()
	}
	ldr := loader.NewLoader(loader.BackendTypeGLTF, loader.WithSkinIndex(cfg.Skin))
	return ldr.Load(cfg.Asset)
}

// run spawns the configured instances of mdl into a scene and ticks it until the frame
// budget is spent. When interruptible is set, SIGINT stops the run early.
func run(cfg config.Config, mdl model.Model, interruptible bool) (summary, error) {
	if mdl.ClipCount() == 0 {
		return summary{}, errors.Errorf("model %q has no animation clips", mdl.Name())
	}

	clip := common.Coalesce(cfg.Clip, mdl.ClipNames()[0])
	if mdl.ClipIndex(clip) < 0 {
		return summary{}, errors.Errorf("model %q has no clip %q (have %v)", mdl.Name(), clip, mdl.ClipNames())
	}
	if cfg.BlendTo != "" && mdl.ClipIndex(cfg.BlendTo) < 0 {
		return summary{}, errors.Errorf("model %q has no blend target %q", mdl.Name(), cfg.BlendTo)
	}

	count := common.Coalesce(cfg.Instances, 1)
	sc := scene.NewScene(mdl.Name(),
		scene.WithComputeWorkers(common.Coalesce(cfg.Workers, 1)),
		scene.WithInstancesPerAnimator(common.Coalesce(cfg.InstancesPerAnimator, 200)),
	)

	objects := make([]game_object.GameObject, 0, count)
	for i := range count {
		obj := game_object.NewGameObject(
			game_object.WithModel(mdl),
			game_object.WithPosition(float32(i%gridSide)*gridSpacing, 0, float32(i/gridSide)*gridSpacing),
			game_object.WithClip(clip, cfg.Loop),
			game_object.WithSpeed(cfg.Speed),
		)
		sc.Add(obj)
		objects = append(objects, obj)
	}

	blended := cfg.BlendTo == ""
	eng := engine.NewEngine(
		engine.WithScene(0, sc),
		engine.WithTickRate(cfg.TickRate),
		engine.WithFixedStep(cfg.FixedStep),
		engine.WithMaxFrames(cfg.TotalFrames()),
		engine.WithProfiling(cfg.Profiling),
	)
	eng.SetTickCallback(func(_ float32) {
		if blended || eng.Elapsed() < cfg.BlendAfter {
			return
		}
		blended = true
		for _, obj := range objects {
			obj.BlendTo(cfg.BlendTo, cfg.BlendSeconds)
		}
		log.Printf("[Main] blending %d instances %q → %q over %.2fs", len(objects), clip, cfg.BlendTo, cfg.BlendSeconds)
	})

	if interruptible {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		go func() {
			if _, ok := <-sig; ok {
				log.Printf("[Main] interrupted")
				eng.Quit()
			}
		}()
	}

	log.Printf("[Main] running %d instances of %q playing %q for %d frames", count, mdl.Name(), clip, cfg.TotalFrames())
	start := time.Now()
	eng.Run()

	res := summary{
		Model:     mdl.Name(),
		Clip:      clip,
		Instances: sc.CountInstances(),
		Joints:    mdl.Skeleton().JointCount(),
		Frames:    eng.Frames(),
		Simulated: eng.Elapsed(),
		Wall:      time.Since(start),

		VertexStride: model.SkinnedVertexBufferLayout().ArrayStride,
	}
	if palette := objects[0].Palette(); len(palette) > 0 {
		tip := palette[len(palette)-1]
		if ibm, ok := mdl.Skeleton().InverseBind(len(palette) - 1); ok {
			// palette = global * inverseBind
			tip = tip.Mul4(ibm.Inv())
		}
		res.Tip = tip.Col(3).Vec3()
	}
	return res, nil
}
