// Package ebitendriver runs a canopy.Manager inside an Ebitengine game loop.
// It polls mouse, wheel and keyboard state once per tick, feeds the
// Interactor, and paints the tree with the vector and text/v2 packages.
package ebitendriver

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/phanxgames/canopy"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

const defaultLabelSize = 13

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	ShowFPS    bool
	ClearColor canopy.Color
	// Face renders labels. When nil, Go Regular at LabelSize is used.
	Face      text.Face
	LabelSize float64
	// Logger defaults to the manager's logger.
	Logger *zap.Logger
}

// Game adapts a Manager to ebiten.Game.
type Game struct {
	mgr    *canopy.Manager
	cfg    RunConfig
	logger *zap.Logger
	canvas *Canvas

	pointerX, pointerY int
	pointerKnown       bool
	keys               []ebiten.Key
}

// NewGame returns a Game driving mgr.
func NewGame(mgr *canopy.Manager, cfg RunConfig) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = mgr.Logger()
	}
	face := cfg.Face
	if face == nil {
		size := cfg.LabelSize
		if size <= 0 {
			size = defaultLabelSize
		}
		var err error
		if face, err = LoadFace(goregular.TTF, size); err != nil {
			logger.Warn("labels disabled", zap.Error(err))
		}
	}
	return &Game{mgr: mgr, cfg: cfg, logger: logger, canvas: &Canvas{Face: face}}
}

// Manager returns the driven manager.
func (g *Game) Manager() *canopy.Manager { return g.mgr }

// Update pumps input into the Interactor and then runs one frame.
func (g *Game) Update() error {
	g.pumpInput()
	g.mgr.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw clears the screen and paints every visible entity.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(toRGBA(g.cfg.ClearColor))
	g.canvas.Dst = screen
	g.mgr.Paint(g.canvas)
	g.canvas.Dst = nil

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout resizes the root to the window's logical size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.mgr.ScreenSize()
	if float64(outsideWidth) != w || float64(outsideHeight) != h {
		g.mgr.SetScreenSize(float64(outsideWidth), float64(outsideHeight))
		g.logger.Debug("screen resized", zap.Int("width", outsideWidth), zap.Int("height", outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and blocks until it is closed.
func Run(mgr *canopy.Manager, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		w, h := mgr.ScreenSize()
		cfg.Width, cfg.Height = int(w), int(h)
	}
	if cfg.Title == "" {
		cfg.Title = "canopy"
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := NewGame(mgr, cfg)
	g.logger.Info("starting game loop",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	if err := ebiten.RunGame(g); err != nil {
		g.logger.Error("game loop stopped", zap.Error(err))
		return fmt.Errorf("ebitendriver: %w", err)
	}
	return nil
}

// --- Input ---

// pumpInput translates this tick's ebiten input state into Interactor
// calls: motion first, then presses, releases, wheel and keys.
func (g *Game) pumpInput() {
	in := g.mgr.Interactor()
	mods := readModifiers()

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	if !g.pointerKnown || cx != g.pointerX || cy != g.pointerY {
		g.pointerX, g.pointerY, g.pointerKnown = cx, cy, true
		in.MouseMove(x, y)
	}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		in.MouseDown(x, y, false, mods)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		in.MouseDown(x, y, true, mods)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		in.MouseUp(x, y)
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		in.MouseWheel(x, y, dx, dy)
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		in.KeyDown(KeyOf(k), mods)
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		in.KeyUp(KeyOf(k), mods)
	}
}

// KeyOf maps an ebiten key into canopy's key space.
func KeyOf(k ebiten.Key) canopy.Key { return canopy.Key(k) }

// EbitenKey is the inverse of KeyOf.
func EbitenKey(k canopy.Key) ebiten.Key { return ebiten.Key(k) }

// readModifiers reads the current keyboard modifier state.
func readModifiers() canopy.KeyModifiers {
	var mods canopy.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= canopy.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= canopy.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= canopy.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= canopy.ModMeta
	}
	return mods
}
