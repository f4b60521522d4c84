package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/klabast/wb-services/programacao/internal/schedule"
	"github.com/klabast/wb-services/programacao/internal/sources"
)

// Preview surface
const (
	HeaderTitle  = "PROGRAMAÇÃO DE CAMPO"
	DefaultScale = 2
	MaxScale     = 4

	// A4 portrait at 96 dpi
	baseWidth  = 794
	baseHeight = 1123

	margin       = 24
	headerHeight = 140
	gridGap      = 12
	gridColumns  = 3
	cardPadding  = 8
	imageShare   = 0.55

	emptyTitle    = "Sua agenda está vazia"
	emptySubtitle = "Adicione uma atividade no painel para começar a planejar."
)

// Palette
var (
	colorBackground = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	colorHeader     = color.RGBA{0x1F, 0x29, 0x37, 0xFF}
	colorHeaderSub  = color.RGBA{0xD1, 0xD5, 0xDB, 0xFF}
	colorBorder     = color.RGBA{0xE5, 0xE7, 0xEB, 0xFF}
	colorEmptyFill  = color.RGBA{0xF9, 0xFA, 0xFB, 0xFF}
	colorImageBlock = color.RGBA{0xE5, 0xE7, 0xEB, 0xFF}
	colorDay        = color.RGBA{0x4F, 0x46, 0xE5, 0xFF}
	colorTime       = color.RGBA{0x1F, 0x29, 0x37, 0xFF}
	colorGroup      = color.RGBA{0x37, 0x41, 0x51, 0xFF}
	colorLocation   = color.RGBA{0x4B, 0x55, 0x63, 0xFF}
	colorLeader     = color.RGBA{0x6B, 0x72, 0x80, 0xFF}
	colorSun        = color.RGBA{0xEA, 0xB3, 0x08, 0xFF}
	colorMoon       = color.RGBA{0x6B, 0x72, 0x80, 0xFF}
)

// ErrScale is returned for a scale outside 1..MaxScale.
var ErrScale = errors.New("export scale out of range")

// PNGOptions tunes the rendered image.
type PNGOptions struct {
	// Scale multiplies the A4 base size; DefaultScale when zero.
	Scale int
}

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// canvas draws in base units and multiplies every coordinate by scale.
type canvas struct {
	img   *image.RGBA
	scale int
	faces []font.Face
}

func (c *canvas) px(v int) int { return v * c.scale }

func (c *canvas) face(bold bool, size float64) (font.Face, error) {
	f := regularFont
	if bold {
		f = boldFont
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size * float64(c.scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	c.faces = append(c.faces, face)
	return face, nil
}

func (c *canvas) close() {
	for _, f := range c.faces {
		f.Close()
	}
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, c.scaled(r), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *canvas) stroke(r image.Rectangle, col color.Color) {
	r = c.scaled(r)
	w := c.scale
	src := image.NewUniform(col)
	draw.Draw(c.img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), src, image.Point{}, draw.Src)
	draw.Draw(c.img, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(c.img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(c.img, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

func (c *canvas) scaled(r image.Rectangle) image.Rectangle {
	return image.Rect(c.px(r.Min.X), c.px(r.Min.Y), c.px(r.Max.X), c.px(r.Max.Y))
}

// text draws s with its baseline at (x, y) in base units.
func (c *canvas) text(face font.Face, col color.Color, x, y int, s string) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(c.px(x), c.px(y)),
	}
	d.DrawString(s)
}

// centered draws s horizontally centered on the canvas.
func (c *canvas) centered(face font.Face, col color.Color, y int, s string) {
	width := font.MeasureString(face, s).Ceil()
	x := (c.img.Bounds().Dx() - width) / 2
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, c.px(y)),
	}
	d.DrawString(s)
}

// disc fills a circle of radius r around (cx, cy), all in device pixels.
func (c *canvas) disc(cx, cy, r int, col color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.img.SetRGBA(cx+x, cy+y, col)
			}
		}
	}
}

// marker draws a sun for day times and a crescent moon for night times.
func (c *canvas) marker(cx, cy int, night bool) {
	r := c.px(6)
	px, py := c.px(cx), c.px(cy)
	if !night {
		c.disc(px, py, r, colorSun)
		return
	}
	c.disc(px, py, r, colorMoon)
	c.disc(px+r/2, py-r/3, r*3/4, colorBackground)
}

// PNG rasterizes the preview: a header band with the week label, then the
// first PreviewCapacity activities on a 3x3 grid.
func PNG(wk Week, opts PNGOptions) ([]byte, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("%w: %d", ErrScale, scale)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	c := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, baseWidth*scale, baseHeight*scale)),
		scale: scale,
	}
	defer c.close()

	c.fill(image.Rect(0, 0, baseWidth, baseHeight), colorBackground)
	if err := c.header(wk.Window.Label); err != nil {
		return nil, err
	}

	grid := image.Rect(margin, headerHeight+margin, baseWidth-margin, baseHeight-margin)
	preview := schedule.Preview(wk.Activities)
	if len(preview) == 0 {
		if err := c.empty(grid); err != nil {
			return nil, err
		}
	} else if err := c.cards(grid, preview); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *canvas) header(label string) error {
	title, err := c.face(true, 30)
	if err != nil {
		return err
	}
	sub, err := c.face(false, 20)
	if err != nil {
		return err
	}
	c.fill(image.Rect(0, 0, baseWidth, headerHeight), colorHeader)
	c.centered(title, colorBackground, 72, HeaderTitle)
	c.centered(sub, colorHeaderSub, 110, label)
	return nil
}

func (c *canvas) empty(area image.Rectangle) error {
	title, err := c.face(true, 20)
	if err != nil {
		return err
	}
	sub, err := c.face(false, 14)
	if err != nil {
		return err
	}
	c.fill(area, colorEmptyFill)
	c.stroke(area, colorBorder)
	mid := area.Min.Y + area.Dy()/2
	c.centered(title, colorTime, mid, emptyTitle)
	c.centered(sub, colorLeader, mid+28, emptySubtitle)
	return nil
}

func (c *canvas) cards(area image.Rectangle, activities []schedule.Activity) error {
	dayFace, err := c.face(true, 15)
	if err != nil {
		return err
	}
	boldFace, err := c.face(true, 13)
	if err != nil {
		return err
	}
	bodyFace, err := c.face(false, 13)
	if err != nil {
		return err
	}

	rows := (schedule.PreviewCapacity + gridColumns - 1) / gridColumns
	cardW := (area.Dx() - (gridColumns-1)*gridGap) / gridColumns
	cardH := (area.Dy() - (rows-1)*gridGap) / rows

	for i, a := range activities {
		col, row := i%gridColumns, i/gridColumns
		x := area.Min.X + col*(cardW+gridGap)
		y := area.Min.Y + row*(cardH+gridGap)
		c.card(image.Rect(x, y, x+cardW, y+cardH), a, dayFace, boldFace, bodyFace)
	}
	return nil
}

func (c *canvas) card(r image.Rectangle, a schedule.Activity, dayFace, boldFace, bodyFace font.Face) {
	c.fill(r, colorBackground)

	imgRect := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+int(float64(r.Dy())*imageShare))
	if img := decodeImage(a.ImageURL); img != nil {
		coverInto(c.img, c.scaled(imgRect), img)
	} else {
		c.fill(imgRect, colorImageBlock)
	}
	c.stroke(r, colorBorder)

	left := r.Min.X + cardPadding
	width := c.px(r.Dx() - 2*cardPadding)
	y := imgRect.Max.Y + 20

	c.text(dayFace, colorDay, left, y, a.Day.Label())
	y += 22
	c.text(dayFace, colorTime, left, y, a.Time)
	c.marker(r.Max.X-cardPadding-6, y-5, schedule.IsNight(a.Time))
	y += 20
	if g := a.GroupName(); g != "" {
		c.text(boldFace, colorGroup, left, y, truncate(boldFace, g, width))
		y += 18
	}
	for _, line := range wrap(bodyFace, a.Location, width, 2) {
		c.text(bodyFace, colorLocation, left, y, line)
		y += 17
	}
	if a.Leader != "" && y < r.Max.Y-cardPadding {
		c.text(bodyFace, colorLeader, left, y+2, truncate(bodyFace, a.Leader, width))
	}
}

// decodeImage decodes an embedded data URL image. Remote URLs and images
// over the upload dimension limit yield nil.
func decodeImage(url string) image.Image {
	if !strings.HasPrefix(url, "data:") {
		return nil
	}
	_, data, err := sources.DecodeDataURL(url)
	if err != nil || sources.CheckDimensions(data) != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// coverInto scales src to fill dr, cropping the overflow around the center.
func coverInto(dst *image.RGBA, dr image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Empty() || dr.Empty() {
		return
	}
	var sr image.Rectangle
	if sb.Dx()*dr.Dy() > sb.Dy()*dr.Dx() {
		w := sb.Dy() * dr.Dx() / dr.Dy()
		x0 := sb.Min.X + (sb.Dx()-w)/2
		sr = image.Rect(x0, sb.Min.Y, x0+w, sb.Max.Y)
	} else {
		h := sb.Dx() * dr.Dy() / dr.Dx()
		y0 := sb.Min.Y + (sb.Dy()-h)/2
		sr = image.Rect(sb.Min.X, y0, sb.Max.X, y0+h)
	}
	draw.CatmullRom.Scale(dst, dr, src, sr, draw.Over, nil)
}

// truncate shortens s with an ellipsis until it fits width device pixels.
func truncate(face font.Face, s string, width int) string {
	if font.MeasureString(face, s).Ceil() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if font.MeasureString(face, candidate).Ceil() <= width {
			return candidate
		}
	}
	return ""
}

// wrap breaks s into at most maxLines lines of width device pixels; the last
// line is truncated.
func wrap(face font.Face, s string, width, maxLines int) []string {
	words := strings.Fields(s)
	var lines []string
	current := ""
	for i, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= width || current == "" {
			current = candidate
			continue
		}
		if len(lines) == maxLines-1 {
			rest := current + " " + strings.Join(words[i:], " ")
			return append(lines, truncate(face, rest, width))
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, truncate(face, current, width))
	}
	return lines
}
