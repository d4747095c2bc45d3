// Package snapshot renders a message card to a PNG for download.
package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"anonq/internal/domain"
)

const (
	cardWidth   = 480
	margin      = 24
	lineHeight  = 18
	headerSpace = 40
	footerSpace = 36
	// basicfont.Face7x13 glyphs are 7px wide.
	maxLineChars = (cardWidth - 2*margin) / 7
)

var (
	cardBG     = color.RGBA{R: 245, G: 243, B: 255, A: 255}
	cardBorder = color.RGBA{R: 76, G: 29, B: 149, A: 255}
	textColor  = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	metaColor  = color.RGBA{R: 107, G: 114, B: 128, A: 255}
)

// WriteCard renders the message content with the recipient's username and the
// creation date, and encodes the card as a PNG to w.
func WriteCard(w io.Writer, msg domain.Message, username string) error {
	lines := wrap(msg.Content, maxLineChars)

	height := headerSpace + len(lines)*lineHeight + footerSpace
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBG), image.Point{}, draw.Src)
	drawBorder(img)

	drawText(img, margin, margin, "@"+username, metaColor)
	y := headerSpace + lineHeight
	for _, line := range lines {
		drawText(img, margin, y, line, textColor)
		y += lineHeight
	}
	drawText(img, margin, height-margin+6, msg.CreatedAt.Format("Jan 2, 2006"), metaColor)

	return png.Encode(w, img)
}

func drawText(img draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawBorder(img *image.RGBA) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		for _, y := range []int{b.Min.Y, b.Min.Y + 1, b.Max.Y - 2, b.Max.Y - 1} {
			img.Set(x, y, cardBorder)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, x := range []int{b.Min.X, b.Min.X + 1, b.Max.X - 2, b.Max.X - 1} {
			img.Set(x, y, cardBorder)
		}
	}
}

// wrap breaks s into lines of at most width characters, breaking on spaces
// where possible.
func wrap(s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			for len(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:width])
				word = word[width:]
			}
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
