package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 60
	defaultBottomBorder = 40
	defaultRightBorder  = 40

	defaultDatetimeFormat = time.DateTime
)

var (
	curveColor     = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	guideColor     = color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	markerColor    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	axisColor      = color.Black
	backgroundFill = image.White
)

// guides are the SWR levels drawn as horizontal reference lines.
var guides = []float64{rating.ExcellentSWR, rating.GoodSWR, rating.AcceptableSWR}

// BorderConfig defines the sizes of white space around the chart area
type BorderConfig struct {
	Top    int
	Left   int // Space for SWR scale
	Bottom int // Space for information bar
	Right  int
}

// RenderConfig holds the chart visualization options
type RenderConfig struct {
	Width  int // Chart area width in pixels
	Height int // Chart area height in pixels

	DatetimeFormat string
	Location       *time.Location
	FontSize       float64

	BorderConfig BorderConfig
}

// ChartRenderer draws an SWR-versus-frequency chart of a stored sweep.
type ChartRenderer struct {
	config RenderConfig
}

// NewChartRenderer creates a renderer with the given configuration.
func NewChartRenderer(config RenderConfig) (*ChartRenderer, error) {
	if config.Width == 0 {
		config.Width = 800
	}
	if config.Height == 0 {
		config.Height = 400
	}
	if config.DatetimeFormat == "" {
		config.DatetimeFormat = defaultDatetimeFormat
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &ChartRenderer{config: config}, nil
}

// Render creates an image of the sweep with scales, threshold guides and
// an information bar.
func (r *ChartRenderer) Render(data *ChartData) (*image.RGBA, error) {
	fullWidth := r.config.Width + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := r.config.Height + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), backgroundFill, image.Point{}, draw.Src)

	area := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+r.config.Width,
		r.config.BorderConfig.Top+r.config.Height,
	)

	ann, err := newAnnotator(annotatorConfig{
		DatetimeFormat: r.config.DatetimeFormat,
		Location:       r.config.Location,
		FontSize:       r.config.FontSize,
		Borders:        r.config.BorderConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, area, data); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	r.renderGuides(img, area, data)
	r.renderCurve(img, area, data)
	r.renderMarker(img, area, data)

	return img, nil
}

// renderGuides draws horizontal reference lines at the rating thresholds.
func (r *ChartRenderer) renderGuides(img *image.RGBA, area image.Rectangle, data *ChartData) {
	for _, level := range guides {
		if level >= data.SWRMax {
			continue
		}
		y := swrToY(area, data, level)
		for x := area.Min.X; x < area.Max.X; x += 4 {
			img.Set(x, y, guideColor)
			img.Set(x+1, y, guideColor)
		}
	}
}

// renderCurve draws the SWR polyline across the chart area.
func (r *ChartRenderer) renderCurve(img *image.RGBA, area image.Rectangle, data *ChartData) {
	var prevX, prevY int
	for i, p := range data.Points {
		x := freqToX(area, data, p.FrequencyHz)
		y := swrToY(area, data, p.SWR)
		if i > 0 {
			drawLine(img, prevX, prevY, x, y, curveColor)
		}
		prevX, prevY = x, y
	}
}

// renderMarker draws a vertical line at the resonant (lowest SWR) point.
func (r *ChartRenderer) renderMarker(img *image.RGBA, area image.Rectangle, data *ChartData) {
	best := data.Best()
	x := freqToX(area, data, best.FrequencyHz)
	for y := area.Min.Y; y < area.Max.Y; y += 3 {
		img.Set(x, y, markerColor)
	}
}

func freqToX(area image.Rectangle, data *ChartData, freqHz float64) int {
	span := data.FrequencyMax - data.FrequencyMin
	if span <= 0 {
		return area.Min.X
	}
	ratio := (freqHz - data.FrequencyMin) / span
	return area.Min.X + int(ratio*float64(area.Dx()-1))
}

// swrToY maps SWR 1.0 to the bottom edge and SWRMax to the top edge,
// clipping out-of-range values to the chart.
func swrToY(area image.Rectangle, data *ChartData, s float64) int {
	s = math.Max(1, math.Min(data.SWRMax, s))
	ratio := (s - 1) / (data.SWRMax - 1)
	return area.Max.Y - 1 - int(ratio*float64(area.Dy()-1))
}

// drawLine draws a straight segment using integer line stepping.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := step(x0, x1)
	sy := step(y0, y1)
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}

// Internal annotator implementation

type annotatorConfig struct {
	DatetimeFormat string
	Location       *time.Location
	FontSize       float64
	Borders        BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, area image.Rectangle, data *ChartData) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	drawFrame(img, area)

	if err := a.drawFrequencyScale(img, area, data); err != nil {
		return fmt.Errorf("drawing frequency scale: %w", err)
	}
	if err := a.drawSWRScale(img, area, data); err != nil {
		return fmt.Errorf("drawing SWR scale: %w", err)
	}
	if err := a.drawInfoBar(img, data); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, area.Min.Y, axisColor)
		img.Set(x, area.Max.Y-1, axisColor)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.Set(area.Min.X, y, axisColor)
		img.Set(area.Max.X-1, y, axisColor)
	}
}

func (a *annotator) drawFrequencyScale(img *image.RGBA, area image.Rectangle, data *ChartData) error {
	freqStep := calculateNiceFrequencyStep(data.FrequencyMax-data.FrequencyMin, area.Dx())
	startFreq := math.Ceil(data.FrequencyMin/freqStep) * freqStep

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Min.Y - fontHeight/2

	for freq := startFreq; freq <= data.FrequencyMax; freq += freqStep {
		x := freqToX(area, data, freq)

		for y := area.Min.Y - tickMarkHeight; y < area.Min.Y; y++ {
			img.Set(x, y, axisColor)
		}

		label := humanize.SI(freq, "Hz")
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing frequency label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawSWRScale(img *image.RGBA, area image.Rectangle, data *ChartData) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for _, level := range swrTicks(data.SWRMax) {
		y := swrToY(area, data, level)

		for x := area.Min.X - tickMarkHeight; x < area.Min.X; x++ {
			img.Set(x, y, axisColor)
		}

		label := fmt.Sprintf("%.1f", level)
		width := font.MeasureString(a.fontFace, label)
		textY := y + fontHeight/2 - metrics.Descent.Round()
		pt := freetype.Pt(area.Min.X-tickMarkHeight-width.Round()-4, textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing SWR label: %w", err)
		}
	}
	return nil
}

// swrTicks picks the vertical scale labels: 1.0, the rating thresholds
// and whole numbers up to the ceiling.
func swrTicks(ceiling float64) []float64 {
	ticks := []float64{1.0, rating.ExcellentSWR, rating.GoodSWR}
	for level := 3.0; level <= ceiling; level++ {
		ticks = append(ticks, level)
	}
	return ticks
}

func (a *annotator) drawInfoBar(img *image.RGBA, data *ChartData) error {
	best := data.Best()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rating: %s (%.1f)", data.Rating.Rating, data.Rating.Score))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Min SWR: %.2f @ %s", best.SWR, humanize.SI(best.FrequencyHz, "Hz")))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Freq: %s - %s",
		humanize.SI(data.FrequencyMin, "Hz"),
		humanize.SI(data.FrequencyMax, "Hz")))
	sb.WriteString("; ")
	sb.WriteString(data.Timestamp.In(a.config.Location).Format(a.config.DatetimeFormat))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}

	return nil
}

// Helper functions

func calculateNiceFrequencyStep(span float64, width int) float64 {
	// Standard step sizes in Hz
	steps := []float64{
		1_000,       // 1 kHz
		10_000,      // 10 kHz
		100_000,     // 100 kHz
		500_000,     // 500 kHz
		1_000_000,   // 1 MHz
		5_000_000,   // 5 MHz
		10_000_000,  // 10 MHz
		100_000_000, // 100 MHz
	}

	desiredSteps := float64(width) / pixelsPerLabel
	targetStep := span / desiredSteps

	for _, step := range steps {
		if step >= targetStep {
			if span/step >= 2 {
				return step
			}
			break
		}
	}

	return span / 2
}
