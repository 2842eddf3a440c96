// Command labeldemo runs the label pipeline headless: it lays out a grid of
// street names and icons, places them for a few frames under a tilted
// camera and writes the resulting glyph atlas to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/font"
	"github.com/gogpu/maplabel/label"
	"github.com/gogpu/maplabel/mesh"
	"github.com/gogpu/maplabel/placement"
	"github.com/gogpu/maplabel/texture"
)

var markerColor = color.NRGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}

var streets = []string{
	"Main St", "Elm Ave", "Harbor Rd", "Mill Lane", "Station Sq",
	"Oak Blvd", "Canal St", "Park Row", "Bridge Rd", "King's Way",
}

func main() {
	var (
		width    = flag.Int("width", 800, "viewport width")
		height   = flag.Int("height", 600, "viewport height")
		grid     = flag.Int("grid", 8, "labels per grid side")
		frames   = flag.Int("frames", 10, "frames to simulate")
		size     = flag.Int("size", 14, "font size in pixels")
		sdf      = flag.Float64("sdf", 0, "signed distance field spread, 0 disables")
		atlas    = flag.Int("atlas", font.DefaultAtlasSize, "atlas size in pixels")
		output   = flag.String("output", "atlas.png", "atlas output file")
		verbose  = flag.Bool("v", false, "debug logging")
		workers  = flag.Int("workers", 0, "layout workers, 0 for GOMAXPROCS")
		tilt     = flag.Float64("tilt", 35, "camera tilt in degrees")
		rotation = flag.Float64("rotation", 20, "map rotation in degrees")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	maplabel.SetLogger(logger)

	if err := run(logger, config{
		viewport: mgl32.Vec2{float32(*width), float32(*height)},
		grid:     *grid,
		frames:   *frames,
		size:     *size,
		sdf:      float32(*sdf),
		atlas:    *atlas,
		output:   *output,
		workers:  *workers,
		tilt:     float32(*tilt),
		rotation: float32(*rotation),
	}); err != nil {
		logger.Error("labeldemo failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	viewport mgl32.Vec2
	grid     int
	frames   int
	size     int
	sdf      float32
	atlas    int
	output   string
	workers  int
	tilt     float32
	rotation float32
}

func run(logger *slog.Logger, cfg config) error {
	backend := texture.NewMemoryBackend(cfg.atlas, cfg.atlas)
	ctx, err := font.NewContext(font.WithAtlasSize(cfg.atlas), font.WithBackend(backend))
	if err != nil {
		return err
	}
	if !ctx.AddFont(goregular.TTF, "regular") || !ctx.AddFont(gobold.TTF, "bold") {
		return fmt.Errorf("labeldemo: could not load fonts")
	}
	if cfg.sdf > 0 {
		ctx.SetSignedDistanceField(cfg.sdf)
	}

	shader, err := mesh.CompileSpriteShader()
	if err != nil {
		return err
	}
	logger.Info("sprite shader compiled", "words", len(shader), "stride", mesh.VertexStride)

	texts := label.NewTextLabels()
	sprites := label.NewSpriteLabels()
	if err := populate(ctx, cfg, texts, sprites); err != nil {
		return err
	}

	all := append(append([]*label.Label{}, texts.Labels()...), sprites.Labels()...)
	mvp := camera(cfg)
	view := label.ViewState{ZoomScale: 1, TileSize: 256, ViewportSize: cfg.viewport, FractZoom: 0.25}
	frame := placement.NewFrame()

	const dt = 1.0 / 60
	for i := range cfg.frames {
		texts.ResetMesh()
		sprites.ResetMesh()
		st := frame.Run(all, mvp, view, dt)
		if err := ctx.BindAtlas(0); err != nil {
			return err
		}
		logger.Debug("frame", "n", i, "drawn", st.Drawn, "occluded", st.Occluded,
			"textQuads", texts.Mesh().QuadCount(), "spriteQuads", sprites.Mesh().QuadCount())
	}

	fs := ctx.Stats()
	calls, bytes := backend.Uploads()
	logger.Info("atlas", "glyphs", fs.Glyphs, "utilization", fmt.Sprintf("%.1f%%", fs.Utilization*100),
		"uploads", calls, "bytes", bytes, "cacheHitRate", fs.Layouts.HitRate())

	return writePNG(cfg.output, backend)
}

// populate lays out one street name per grid cell concurrently and adds a
// marker icon below every name.
func populate(ctx *font.Context, cfg config, texts *label.TextLabels, sprites *label.SpriteLabels) error {
	layouter := font.NewLayouter(ctx, cfg.workers)
	defer layouter.Close()

	n := cfg.grid * cfg.grid
	reqs := make([]font.Request, n)
	for i := range reqs {
		name := "regular"
		if i%5 == 0 {
			name = "bold"
		}
		reqs[i] = font.Request{Font: name, Size: cfg.size, Text: streets[i%len(streets)]}
	}
	results := layouter.LayoutAll(reqs)

	marker := label.SpriteQuad(mgl32.Vec2{8, 8}, mgl32.Vec2{0, 0}, mgl32.Vec2{0, 0}, mesh.PackColor(markerColor))
	step := 2 / float32(cfg.grid)
	for i, res := range results {
		if res.Err != nil {
			return fmt.Errorf("labeldemo: layout %q: %w", reqs[i].Text, res.Err)
		}
		x := -1 + step*(float32(i%cfg.grid)+0.5)
		y := -1 + step*(float32(i/cfg.grid)+0.5)
		wt := label.WorldTransform{Position: mgl32.Vec3{x, y, 0}}

		opts := label.DefaultOptions()
		opts.Priority = uint32(n - i) //nolint:gosec // n is small
		opts.Anchors = []label.Anchor{label.AnchorTop}
		texts.Add(wt, res.Layout, opts, 1, 0xff202020)

		icon := label.DefaultOptions()
		icon.Anchors = []label.Anchor{label.AnchorBottom}
		icon.Priority = opts.Priority
		sprites.Add(wt, mgl32.Vec2{8, 8}, icon, 1, marker)
	}
	return nil
}

// camera looks at the origin from a tilted, rotated position.
func camera(cfg config) mgl32.Mat4 {
	tilt := mgl32.DegToRad(cfg.tilt)
	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(cfg.rotation))
	s, c := math.Sincos(float64(tilt))
	eye := rot.Mul4x1(mgl32.Vec4{0, -3 * float32(s), 3 * float32(c), 1}).Vec3()
	up := rot.Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	proj := mgl32.Perspective(mgl32.DegToRad(45), cfg.viewport[0]/cfg.viewport[1], 0.1, 100)
	return proj.Mul4(mgl32.LookAtV(eye, mgl32.Vec3{}, up))
}

func writePNG(path string, backend *texture.MemoryBackend) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, backend.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
