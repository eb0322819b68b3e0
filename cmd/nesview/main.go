// Command nesview is a thin, swappable live GUI front end over
// internal/core: it drives one Core through EmulateFrame every ebiten
// tick and blits the resulting framebuffer, generalizing the teacher
// repo's hardwired console.Bus ebiten.Game into a front end that never
// leaks into the core package itself.
package main

import (
	"fmt"
	"image"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/aldengrove/nesgo/internal/cartridge"
	"github.com/aldengrove/nesgo/internal/core"
	"github.com/aldengrove/nesgo/internal/joyinput"
	"github.com/aldengrove/nesgo/internal/ppu"

	"github.com/charmbracelet/log"
)

const windowScale = 3

var showHUD bool

var rootCmd = &cobra.Command{
	Use:   "nesview <rom>",
	Short: "Play a ROM live in a window",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&showHUD, "hud", true, "overlay frame count and CPU error count")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	cart, err := cartridge.Load(data)
	if err != nil {
		return fmt.Errorf("parsing rom: %w", err)
	}
	nes, err := core.Open(cart)
	if err != nil {
		return fmt.Errorf("opening core: %w", err)
	}

	g := &game{nes: nes, hud: showHUD}
	ebiten.SetWindowSize(ppu.Width*windowScale, ppu.Height*windowScale)
	ebiten.SetWindowTitle("nesview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info("loaded rom", "mapper", cart.MapperID, "path", args[0])
	return ebiten.RunGame(g)
}

// keymap mirrors the teacher's 8-button ordering (A, B, Select, Start,
// Up, Down, Left, Right) so keyboard polling reuses the same bit
// layout encodePort expects.
var keymap = []ebiten.Key{
	ebiten.KeyA,
	ebiten.KeyB,
	ebiten.KeySpace,
	ebiten.KeyEnter,
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

type game struct {
	nes *core.Core
	hud bool
}

func (g *game) Update() error {
	var buttons uint8
	for i, key := range keymap {
		if ebiten.IsKeyPressed(key) {
			buttons |= 1 << i
		}
	}
	frame := joyinput.Frame{
		Power: ebiten.IsKeyPressed(ebiten.KeyF1),
		Reset: ebiten.IsKeyPressed(ebiten.KeyF2),
		Port1: uint32(buttons) | 0xFFFFFF00,
	}
	g.nes.EmulateFrame(frame)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := ppu.ToPaletted(g.nes.PPU().Framebuffer())
	if g.hud {
		drawHUD(img, fmt.Sprintf("frame %d  errs %d", g.nes.FrameCount(), g.nes.RunErrors()))
	}
	screen.DrawImage(ebiten.NewImageFromImage(img), nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

// drawHUD stamps a one-line status string into the top-left corner of
// img using the golang.org/x/image basicfont bitmap face, matching the debug-overlay pattern
// other pack viewers use for register/frame readouts.
func drawHUD(img *image.Paletted, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(img.Palette[0x30]),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 12),
	}
	d.DrawString(s)
}
