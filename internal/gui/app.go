// Package gui hosts scenes in a raylib window. Each scene runs on its own
// loop goroutine; finished frames reach the render thread through a
// mailbox and are uploaded into a texture.
package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/genviz/internal/catalog"
	"github.com/san-kum/genviz/internal/config"
	"github.com/san-kum/genviz/internal/dynamo"
	"github.com/san-kum/genviz/internal/resources"
	"github.com/san-kum/genviz/internal/scene"
	"github.com/san-kum/genviz/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColPanel   = rl.NewColor(10, 10, 10, 170)
)

// Backgrounds sit under each scene's texture, since most scenes leave
// transparent pixels.
var Backgrounds = map[string]rl.Color{
	"fractal":   rl.NewColor(0, 0, 0, 255),
	"automaton": rl.NewColor(255, 255, 255, 255),
	"flowfield": rl.NewColor(255, 255, 255, 255),
	"cosmos":    rl.NewColor(4, 6, 18, 255),
	"ember":     rl.NewColor(12, 8, 6, 255),
	"aura":      rl.NewColor(9, 10, 14, 255),
}

const fontAsset = "fonts/LiberationMono-Regular.ttf"

type App struct {
	cfg     *config.Config
	cat     *catalog.Registry
	reg     *resources.Registry
	store   *storage.Store
	log     *logrus.Entry
	host    *scene.Host
	names   []string
	current int
	loop    *scene.Loop
	mailbox *scene.Mailbox
	tex     rl.Texture2D
	texSize image.Point
	pixels  []color.RGBA
	font    rl.Font
	vp      dynamo.Viewport
	running bool
	showHUD bool
	status  string
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "genviz")
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
}

// loadFont resolves the font through the asset registry and falls back to
// raylib's built-in font when the file is missing.
func loadFont(reg *resources.Registry) rl.Font {
	path := reg.Asset(fontAsset)
	if _, err := os.Stat(path); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(path, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens a window on the named scene and blocks until it is closed.
func Run(ctx context.Context, cfg *config.Config, cat *catalog.Registry, reg *resources.Registry, store *storage.Store, log *logrus.Entry) error {
	if reg == nil {
		reg = resources.Default()
	}
	names := make([]string, 0, len(catalog.Order))
	current := -1
	for _, n := range catalog.Order {
		if cat.Describe(n) == "" {
			continue
		}
		if n == cfg.Scene {
			current = len(names)
		}
		names = append(names, n)
	}
	if current < 0 {
		return fmt.Errorf("%q: %w", cfg.Scene, dynamo.ErrUnknownScene)
	}

	initWindow(cfg)
	defer rl.CloseWindow()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := &App{
		cfg:     cfg,
		cat:     cat,
		reg:     reg,
		store:   store,
		log:     log,
		host:    scene.NewHost(ctx, cfg.FPS, log),
		names:   names,
		current: -1,
		font:    loadFont(reg),
		running: cfg.Running,
		showHUD: true,
	}
	defer a.host.UnmountAll()
	defer a.unloadTexture()

	a.host.SetRunning(a.running)
	a.vp = a.windowViewport()
	if err := a.mount(current); err != nil {
		return err
	}
	a.RunLoop(ctx)
	return nil
}

func (a *App) RunLoop(ctx context.Context) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) windowViewport() dynamo.Viewport {
	scale := a.cfg.PixelRatio
	if dpi := rl.GetWindowScaleDPI(); dpi.X > 1 && scale <= 1 {
		scale = float64(dpi.X)
	}
	return dynamo.NewViewport(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), scale)
}

// mount replaces the visible scene. Only one scene is mounted at a time.
func (a *App) mount(i int) error {
	name := a.names[i]
	s, err := a.cat.New(name, a.cfg, a.reg, a.log)
	if err != nil {
		return err
	}
	if a.current >= 0 {
		a.host.Unmount(a.names[a.current])
	}
	mb := &scene.Mailbox{}
	loop, fresh := a.host.Mount(name, s, a.vp, mb.Hook())
	if !fresh {
		s.Release()
	}
	a.loop, a.mailbox, a.current = loop, mb, i
	a.log.WithField("scene", name).Debug("mounted")
	return nil
}

func (a *App) switchTo(i int) {
	n := len(a.names)
	i = ((i % n) + n) % n
	if err := a.mount(i); err != nil {
		a.status = err.Error()
		a.log.WithError(err).Error("switch scene")
	}
}

// Update handles input and reports whether the app should exit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}

	if rl.IsWindowResized() {
		a.vp = a.windowViewport()
		if err := a.host.Resize(a.names[a.current], a.vp); err != nil {
			a.log.WithError(err).Warn("resize")
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
		a.host.SetRunning(a.running)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		if rl.IsKeyDown(rl.KeyLeftShift) {
			a.switchTo(a.current - 1)
		} else {
			a.switchTo(a.current + 1)
		}
	}
	for i := range a.names {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			a.switchTo(i)
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.switchTo(a.current)
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.saveStill()
	}

	a.pointer()
	return false
}

// pointer forwards mouse input to the scene loop in logical pixels.
func (a *App) pointer() {
	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)
	key := a.names[a.current]

	var post func(scene.PointerHandler)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		post = func(p scene.PointerHandler) { p.PointerDown(x, y) }
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		post = func(p scene.PointerHandler) { p.PointerUp() }
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			post = func(p scene.PointerHandler) { p.PointerMove(x, y) }
		}
	}
	if post != nil {
		_ = a.host.Pointer(key, post)
	}

	// raylib reports positive wheel moves away from the user, the
	// opposite of a DOM deltaY.
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		dy := -float64(wheel)
		_ = a.host.Pointer(key, func(p scene.PointerHandler) { p.Wheel(x, y, dy) })
	}
}

// upload copies the latest frame into the texture, reallocating it when
// the surface size changed.
func (a *App) upload() {
	a.mailbox.Take(func(img *image.RGBA) {
		size := img.Rect.Size()
		if size != a.texSize {
			a.unloadTexture()
			blank := rl.GenImageColor(size.X, size.Y, rl.Blank)
			a.tex = rl.LoadTextureFromImage(blank)
			rl.UnloadImage(blank)
			rl.SetTextureFilter(a.tex, rl.FilterBilinear)
			a.texSize = size
			a.pixels = make([]color.RGBA, size.X*size.Y)
		}
		for i := range a.pixels {
			p := img.Pix[i*4 : i*4+4 : i*4+4]
			a.pixels[i] = color.RGBA{p[0], p[1], p[2], p[3]}
		}
		rl.UpdateTexture(a.tex, a.pixels)
	})
}

func (a *App) unloadTexture() {
	if a.texSize != (image.Point{}) {
		rl.UnloadTexture(a.tex)
		a.texSize = image.Point{}
	}
}

func (a *App) Draw() {
	a.upload()

	rl.BeginDrawing()
	rl.ClearBackground(Backgrounds[a.names[a.current]])

	if a.texSize != (image.Point{}) {
		src := rl.NewRectangle(0, 0, float32(a.texSize.X), float32(a.texSize.Y))
		dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
		// surfaces hold premultiplied alpha
		rl.BeginBlendMode(rl.BlendAlphaPremultiply)
		rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
		rl.EndBlendMode()
	}

	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	name := a.names[a.current]
	state := "running"
	if !a.running {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  [%d/%d]  %s", name, a.current+1, len(a.names), state),
		a.cat.Describe(name),
		fmt.Sprintf("frames %d  fps %d", a.loop.Frames(), rl.GetFPS()),
		"space pause  tab/1-6 scene  s still  h hud  q quit",
	}
	if a.status != "" {
		lines = append(lines, a.status)
	}

	const size, pad = 16, 10
	rl.DrawRectangle(8, 8, 460, int32(len(lines)*(size+4)+pad*2), ColPanel)
	for i, line := range lines {
		col := ColText
		if i > 0 {
			col = ColTextDim
		}
		pos := rl.NewVector2(8+pad, float32(8+pad+i*(size+4)))
		rl.DrawTextEx(a.font, line, pos, size, 1, col)
	}
}

// saveStill writes the current frame as a single-frame capture.
func (a *App) saveStill() {
	if a.store == nil {
		return
	}
	var frame *image.RGBA
	done := make(chan struct{})
	if !a.loop.Post(func(s scene.Scene) {
		frame = s.Surface().Snapshot()
		close(done)
	}) {
		return
	}
	select {
	case <-done:
	case <-a.loop.Done():
		return
	}
	if frame == nil {
		a.status = "no frame to save"
		return
	}
	id, err := a.store.Save(&storage.Capture{
		Meta: storage.CaptureMetadata{
			Scene:      a.names[a.current],
			Seed:       a.cfg.Seed,
			Width:      a.vp.Width,
			Height:     a.vp.Height,
			PixelRatio: a.vp.Scale,
			FPS:        a.cfg.FPS,
			Frames:     1,
		},
		Frames: []*image.RGBA{frame},
	})
	if err != nil {
		a.status = "save failed"
		a.log.WithError(err).Error("save still")
		return
	}
	a.status = "saved " + id
}
