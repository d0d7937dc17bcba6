package render

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/nurse/vmath"
)

// Terminal draws on a tcell screen. Images are ASCII art read from <base name>.txt
// in the asset tree, device pixels map to cells through the cell size
type Terminal struct {
	screen     tcell.Screen
	assets     fs.FS
	cell       vmath.Vec2
	background RGB
	foreground RGB

	images map[string]*asciiImage
	fps    fpsCounter
	now    func() time.Time
}

type asciiImage struct {
	image
	lines [][]rune
}

// NewTerminal wraps an initialized tcell screen. A nil asset tree loads no image
func NewTerminal(screen tcell.Screen, assets fs.FS, cellW, cellH int) *Terminal {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	return &Terminal{
		screen:     screen,
		assets:     assets,
		cell:       vmath.V2(float64(cellW), float64(cellH)),
		background: RGBBlack,
		foreground: RGBWhite,
		images:     make(map[string]*asciiImage),
		now:        time.Now,
	}
}

// Screen returns the underlying tcell screen
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func (t *Terminal) LoadImage(name string) (Image, error) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if img, ok := t.images[base]; ok {
		return img, nil
	}
	if t.assets == nil {
		return nil, fmt.Errorf("load %q without assets: %w", name, ErrImageNotFound)
	}

	file := base + ".txt"
	data, err := fs.ReadFile(t.assets, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %q from %s: %w", name, file, ErrImageNotFound)
		}
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	img := &asciiImage{image: image{name: base}}
	width := 0
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		runes := []rune(strings.TrimRight(line, "\r"))
		if len(runes) > width {
			width = len(runes)
		}
		img.lines = append(img.lines, runes)
	}
	img.size = vmath.V2(float64(width)*t.cell.X, float64(len(img.lines))*t.cell.Y)
	t.images[base] = img
	return img, nil
}

func (t *Terminal) LoadText(content, font string, size int, pos vmath.Vec2) Text {
	// Terminal text is one cell per rune, font and size only matter to pixel backends
	return &text{
		content: content,
		font:    font,
		size:    size,
		pos:     pos,
		extent:  vmath.V2(float64(len([]rune(content)))*t.cell.X, t.cell.Y),
	}
}

func (t *Terminal) UniformSurface(shift, size vmath.Vec2, color RGB, alpha uint8) Image {
	if size.X <= 0 || size.Y <= 0 {
		size = vmath.V2Sub(t.Resolution(), shift)
	}
	return &surface{image: image{name: "uniform", size: size}, color: color, alpha: alpha}
}

func (t *Terminal) Display(s *Screen, obj Drawable) {
	obj.Draw(t, s)
}

func (t *Terminal) Clean() {
	t.screen.Clear()
}

func (t *Terminal) Flip() {
	t.screen.Show()
	t.fps.frame(t.now())
}

func (t *Terminal) Resolution() vmath.Vec2 {
	w, h := t.screen.Size()
	return vmath.V2(float64(w)*t.cell.X, float64(h)*t.cell.Y)
}

// FPS returns the measured presentation rate
func (t *Terminal) FPS() float64 {
	return t.fps.rate
}

func (t *Terminal) DrawImage(s *Screen, img Image, pos vmath.Vec2) {
	clip := t.cellClip(s)
	col, row := t.toCell(pos)

	switch v := img.(type) {
	case *asciiImage:
		style := tcell.StyleDefault.Foreground(t.foreground.Tcell()).Background(t.background.Tcell())
		for dy, line := range v.lines {
			for dx, r := range line {
				if r == ' ' {
					continue
				}
				t.set(clip, col+dx, row+dy, r, style)
			}
		}
	case *surface:
		bg := t.background.Blend(v.color, float64(v.alpha)/255)
		style := tcell.StyleDefault.Background(bg.Tcell())
		w := int(math.Ceil(v.size.X / t.cell.X))
		h := int(math.Ceil(v.size.Y / t.cell.Y))
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				t.set(clip, col+dx, row+dy, ' ', style)
			}
		}
	default:
		t.set(clip, col, row, '?', tcell.StyleDefault)
	}
}

func (t *Terminal) DrawText(s *Screen, txt Text, pos vmath.Vec2) {
	t.drawString(t.cellClip(s), pos, txt.Content(), tcell.StyleDefault.Foreground(t.foreground.Tcell()))
}

func (t *Terminal) DrawFPS(s *Screen, pos vmath.Vec2, fg, bg RGB) {
	style := tcell.StyleDefault.Foreground(fg.Tcell()).Background(bg.Tcell())
	t.drawString(t.cellClip(s), pos, fmt.Sprintf("%.0f fps", t.fps.rate), style)
}

func (t *Terminal) drawString(clip cellRect, pos vmath.Vec2, str string, style tcell.Style) {
	col, row := t.toCell(pos)
	for i, r := range []rune(str) {
		t.set(clip, col+i, row, r, style)
	}
}

type cellRect struct {
	x0, y0, x1, y1 int // x1, y1 exclusive
}

func (t *Terminal) cellClip(s *Screen) cellRect {
	g := s.Geometry()
	return cellRect{
		x0: int(math.Floor(g.X / t.cell.X)),
		y0: int(math.Floor(g.Y / t.cell.Y)),
		x1: int(math.Floor((g.X + g.W) / t.cell.X)),
		y1: int(math.Floor((g.Y + g.H) / t.cell.Y)),
	}
}

func (t *Terminal) toCell(p vmath.Vec2) (int, int) {
	return int(math.Floor(p.X / t.cell.X)), int(math.Floor(p.Y / t.cell.Y))
}

func (t *Terminal) set(clip cellRect, x, y int, r rune, style tcell.Style) {
	if x < clip.x0 || x >= clip.x1 || y < clip.y0 || y >= clip.y1 {
		return
	}
	t.screen.SetContent(x, y, r, nil, style)
}

// fpsCounter measures frames per second over one-second windows
type fpsCounter struct {
	windowStart time.Time
	frames      int
	rate        float64
}

func (f *fpsCounter) frame(now time.Time) {
	if f.windowStart.IsZero() {
		f.windowStart = now
		return
	}
	f.frames++
	if elapsed := now.Sub(f.windowStart); elapsed >= time.Second {
		f.rate = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.windowStart = now
	}
}
