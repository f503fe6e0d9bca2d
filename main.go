package main

import (
	"flag"

	"github.com/veandco/go-sdl2/sdl"
	lin "github.com/xlab/linmath"
	"go.uber.org/zap"

	"ECS_render_engine/config"
	"ECS_render_engine/ecs"
	"ECS_render_engine/engine"
	"ECS_render_engine/input"
	"ECS_render_engine/paths"
	"ECS_render_engine/renderer"
	"ECS_render_engine/stl"
)

var validationLayers = []string{
	"VK_LAYER_KHRONOS_validation",
}

func main() {
	configPath := flag.String("config", "engine.toml", "path to the TOML configuration file")
	meshPath := flag.String("mesh", "", "optional binary .stl file to load as an extra scene object")
	flag.Parse()

	cfg, err := config.Load(paths.Resolve(*configPath))
	if err != nil {
		panic(err)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	clearColor, err := config.ParseHexColor(cfg.Renderer.ClearColor)
	if err != nil {
		zap.S().Fatalf("Bad clear color: %v", err)
	}

	var layers []string
	if cfg.Renderer.Validation {
		layers = validationLayers
	}
	core := renderer.NewCore(renderer.Config{
		Title:            cfg.Window.Title,
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		ClearColor:       clearColor,
		ShaderDir:        paths.Resolve(cfg.Renderer.ShaderDir),
		ValidationLayers: layers,
	})
	defer core.Destroy()

	in := input.New(core.Win)
	eng := engine.New(core, in)
	eng.Render.FullscreenKey = int(sdl.K_F11)

	buildScene(eng, core, *meshPath)
	eng.Run()
}

func buildScene(eng *engine.Engine, core *renderer.Core, meshPath string) {
	w := eng.World

	engine.CreatePerspectiveCamera(w, lin.Vec3{0, 0, -5}, ecs.PerspectiveParams{})

	triangle := w.Spawn("triangle")
	w.SetTransform(triangle, ecs.NewTransform(lin.Vec3{-1.2, 0, 0}))
	w.SetMesh(triangle, ecs.EquilateralTriangle(1.5))
	w.SetMaterial(triangle, core.Material("mesh/rainbow"))

	square := w.Spawn("square")
	w.SetTransform(square, ecs.NewTransform(lin.Vec3{1.2, 0, 0}))
	w.SetMesh(square, ecs.Square(1.2))
	solid := core.Material("mesh/solid")
	solid.Color = [4]float32{0.2, 0.65, 0.9, 1}
	w.SetMaterial(square, solid)

	spinners := []ecs.EntityID{triangle, square}

	if meshPath != "" {
		mesh, err := stl.Load(paths.Resolve(meshPath))
		if err != nil {
			zap.S().Fatalf("Failed to load mesh: %v", err)
		}
		model := w.Spawn("model")
		t := ecs.NewTransform(lin.Vec3{0, 0, 2})
		t.Scale = lin.Vec3{0.02, 0.02, 0.02}
		w.SetTransform(model, t)
		w.SetMesh(model, mesh)
		w.SetMaterial(model, core.Material("mesh/solid"))
		spinners = append(spinners, model)
	}

	eng.Scheduler.Register(ecs.StageUpdate, "SpinScene", ecs.SystemFunc(func(ctx *ecs.Context) {
		for _, id := range spinners {
			t, ok := ctx.World.Transform(id)
			if !ok {
				continue
			}
			t.Rotation[1] += float32(ctx.DeltaTime) * 45
			t.Rotation[2] += float32(ctx.DeltaTime) * 15
		}
	}))
}
