package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"github.com/yt-insights/ytreport/internal/models"
)

// Letter page size in points
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

const (
	reportTitle   = "YouTube Channel Report"
	sectionHeader = "Video Performance Summary"

	leftMargin   = 50.0
	detailIndent = 60.0
	topMargin    = 50.0
	// Rows never start below this height.
	bottomMargin = 100.0

	profileStart = PageHeight - 100
	profileStep  = 20.0
	rowStep      = 30.0
	detailOffset = 12.0

	maxTitleRunes = 70
)

// canvas draws text with the origin at the bottom-left corner of the page.
type canvas interface {
	SetFont(style string, size float64)
	DrawString(x, y float64, s string)
	ShowPage()
}

// layout draws the report onto c.
func layout(c canvas, profile *models.ChannelProfile, table *models.StatisticsTable) {
	c.SetFont("B", 18)
	c.DrawString(leftMargin, PageHeight-topMargin, reportTitle)

	c.SetFont("", 12)
	y := profileStart
	if profile != nil {
		for _, field := range profile.Fields() {
			if field.Key == "Playlist_ID" {
				continue
			}
			c.DrawString(leftMargin, y, profileLine(field))
			y -= profileStep
		}
	}

	y -= profileStep
	c.SetFont("B", 14)
	c.DrawString(leftMargin, y, sectionHeader)
	y -= rowStep

	if table == nil {
		return
	}

	for _, row := range table.Rows {
		c.SetFont("", 10)
		c.DrawString(leftMargin, y, truncate(row.Title, maxTitleRunes))
		c.DrawString(detailIndent, y-detailOffset, statsLine(row))
		y -= rowStep
		if y < bottomMargin {
			c.ShowPage()
			y = PageHeight - topMargin
		}
	}
}

func profileLine(field models.ProfileField) string {
	value := fmt.Sprintf("%v", field.Value)
	value = strings.Join(strings.Fields(value), " ")
	return fmt.Sprintf("%s: %s", field.Key, value)
}

func statsLine(row models.VideoStatistics) string {
	return fmt.Sprintf("Views: %s | Likes: %s | Comments: %s",
		Thousands(row.Views), Thousands(row.Likes), Thousands(row.Comments))
}

// Thousands formats a count with comma separators
func Thousands(v uint64) string {
	if v > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(v))
	}
	return humanize.Comma(int64(v))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// pdfCanvas adapts fpdf to the bottom-left origin canvas. Pages are added
// lazily so a page break after the last row leaves no blank trailing page.
type pdfCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
	needPage  bool
}

func newPDFCanvas() *pdfCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("ytreport", false)
	pdf.SetFont("Helvetica", "", 12)
	return &pdfCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
		needPage:  true,
	}
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont("Helvetica", style, size)
}

func (c *pdfCanvas) DrawString(x, y float64, s string) {
	if c.needPage {
		c.pdf.AddPage()
		c.needPage = false
	}
	c.pdf.Text(x, PageHeight-y, c.translate(s))
}

func (c *pdfCanvas) ShowPage() {
	c.needPage = true
}

// WritePDF renders the profile and statistics table as a Letter-size PDF.
func WritePDF(w io.Writer, profile *models.ChannelProfile, table *models.StatisticsTable) error {
	c := newPDFCanvas()
	layout(c, profile, table)
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// RenderPDF returns the fully buffered PDF document
func RenderPDF(profile *models.ChannelProfile, table *models.StatisticsTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, profile, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
