package plot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/xxxsen/transcript-analytics/internal/emotion"
)

const (
	DefaultSize = 600
	minSize     = 200

	dataURIPrefix = "data:image/png;base64,"
	background    = "#ffffff"
	inkColor      = "#333333"
	ringColor     = "#999999"
)

var emotionColors = map[string]string{
	emotion.Joy:          "#FFD700",
	emotion.Trust:        "#32CD32",
	emotion.Fear:         "#808080",
	emotion.Surprise:     "#FF8C00",
	emotion.Sadness:      "#4169E1",
	emotion.Disgust:      "#8A2BE2",
	emotion.Anger:        "#FF6347",
	emotion.Anticipation: "#20B2AA",
}

var polarityColors = map[string]string{
	emotion.PolarityPositive: "#2ecc71",
	emotion.PolarityNegative: "#e74c3c",
	emotion.PolarityNeutral:  "#bdc3c7",
}

// Renderer draws PNG plots. The parsed font is shared, faces are built per
// call because a truetype face caches glyphs without locking.
type Renderer struct {
	size int
	font *truetype.Font
}

func NewRenderer(size int) (*Renderer, error) {
	if size < minSize {
		size = DefaultSize
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{size: size, font: f}, nil
}

func (r *Renderer) face(points float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (r *Renderer) canvas(title string) *gg.Context {
	dc := gg.NewContext(r.size, r.size)
	dc.SetHexColor(background)
	dc.Clear()
	if title != "" {
		dc.SetFontFace(r.face(float64(r.size) / 30))
		dc.SetHexColor(inkColor)
		dc.DrawStringAnchored(title, float64(r.size)/2, float64(r.size)/20, 0.5, 0.5)
	}
	return dc
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Flower draws one petal per emotion with length proportional to the
// positive part of its z-score and a dashed ring at the significance level.
func (r *Renderer) Flower(z map[string]float64, title string) ([]byte, error) {
	dc := r.canvas(title)
	s := float64(r.size)
	cx, cy := s/2, s/2+s/40
	radius := s * 0.36

	scale := emotion.SignificanceZ * 1.5
	for _, e := range emotion.Emotions {
		if z[e] > scale {
			scale = z[e]
		}
	}

	dc.SetFontFace(r.face(s / 40))
	step := 2 * math.Pi / float64(len(emotion.Emotions))
	for i, e := range emotion.Emotions {
		angle := -math.Pi/2 + float64(i)*step
		length := radius * math.Max(z[e], 0) / scale
		if length > 0 {
			dc.Push()
			dc.RotateAbout(angle, cx, cy)
			dc.DrawEllipse(cx+length/2, cy, length/2, radius*math.Sin(step/2)*0.6)
			dc.SetHexColor(emotionColors[e])
			dc.FillPreserve()
			dc.SetHexColor(inkColor)
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.Pop()
		}
		lx := cx + (radius+s/18)*math.Cos(angle)
		ly := cy + (radius+s/18)*math.Sin(angle)
		dc.SetHexColor(inkColor)
		dc.DrawStringAnchored(e, lx, ly, 0.5, 0.5)
	}

	dc.SetHexColor(ringColor)
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.DrawCircle(cx, cy, radius*emotion.SignificanceZ/scale)
	dc.Stroke()
	dc.SetDash()
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
	return encode(dc)
}

// FrameGraph puts the target in the middle and its neighbours on a ring,
// colored by polarity. Edge opacity follows the pair count.
func (r *Renderer) FrameGraph(fr *emotion.Frame, title string) ([]byte, error) {
	if fr == nil || !fr.Found || len(fr.Words) == 0 {
		return r.Placeholder("no semantic frame found")
	}
	dc := r.canvas(title)
	s := float64(r.size)
	cx, cy := s/2, s/2+s/40
	radius := s * 0.34

	pos := make(map[string][2]float64, len(fr.Words))
	pos[fr.Words[0]] = [2]float64{cx, cy}
	ring := fr.Words[1:]
	for i, w := range ring {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(len(ring))
		pos[w] = [2]float64{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)}
	}

	maxW := 1
	for _, e := range fr.Edges {
		if e.Weight > maxW {
			maxW = e.Weight
		}
	}
	for _, e := range fr.Edges {
		a, okA := pos[e.Source]
		b, okB := pos[e.Target]
		if !okA || !okB {
			continue
		}
		alpha := 0.15 + 0.7*float64(e.Weight)/float64(maxW)
		dc.SetRGBA(0.3, 0.3, 0.3, alpha)
		dc.SetLineWidth(1 + 2*float64(e.Weight)/float64(maxW))
		dc.DrawLine(a[0], a[1], b[0], b[1])
		dc.Stroke()
	}

	dc.SetFontFace(r.face(s / 45))
	for i, w := range fr.Words {
		p := pos[w]
		nodeR := s / 60
		if i == 0 {
			nodeR = s / 30
		}
		color, ok := polarityColors[fr.Polarity[w]]
		if !ok {
			color = polarityColors[emotion.PolarityNeutral]
		}
		dc.SetHexColor(color)
		dc.DrawCircle(p[0], p[1], nodeR)
		dc.Fill()
		dc.SetHexColor(inkColor)
		dc.DrawStringAnchored(w, p[0], p[1]-nodeR-s/80, 0.5, 0.5)
	}
	return encode(dc)
}

func (r *Renderer) Placeholder(message string) ([]byte, error) {
	dc := r.canvas("")
	s := float64(r.size)
	dc.SetHexColor("#f0f0f0")
	dc.DrawRoundedRectangle(s*0.1, s*0.35, s*0.8, s*0.3, s/40)
	dc.Fill()
	dc.SetFontFace(r.face(s / 30))
	dc.SetHexColor("#777777")
	dc.DrawStringAnchored(message, s/2, s/2, 0.5, 0.5)
	return encode(dc)
}

func DataURI(png []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png)
}
