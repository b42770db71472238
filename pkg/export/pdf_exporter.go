package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// EthiopicFont is the TTF looked up in the font directory for Amharic text.
const EthiopicFont = "NotoSansEthiopic-Regular.ttf"

const unicodeFamily = "ethiopic"

// PDFExporter renders datasets into a landscape tabular PDF.
type PDFExporter struct {
	fontDir string
}

// NewPDFExporter constructs a PDF exporter. When fontDir holds EthiopicFont the
// document is rendered with it; otherwise the core Arial font is used and
// Ethiopic characters will not display.
func NewPDFExporter(fontDir string) *PDFExporter {
	return &PDFExporter{fontDir: fontDir}
}

// Unicode reports whether the Ethiopic font is available.
func (e *PDFExporter) Unicode() bool {
	if e.fontDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(e.fontDir, EthiopicFont))
	return err == nil
}

// Render creates a PDF document with an optional title and table body.
// Column widths follow Dataset.Widths when set, otherwise they are equal.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	family := "Arial"
	text := asciiOnly
	if e.Unicode() {
		pdf.SetFontLocation(e.fontDir)
		pdf.AddUTF8Font(unicodeFamily, "", EthiopicFont)
		pdf.AddUTF8Font(unicodeFamily, "B", EthiopicFont)
		family = unicodeFamily
		text = func(s string) string { return s }
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, text(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	widths := columnWidths(data, 277.0)
	lineHeight := 6.0

	pdf.SetFont(family, "B", 9)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, text(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 8)
	for _, row := range data.Rows {
		// tallest wrapped cell decides the row height
		cells := make([]string, len(data.Headers))
		lines := 1
		for i, header := range data.Headers {
			cells[i] = text(row[header])
			if n := len(pdf.SplitText(cells[i], widths[i]-2)); n > lines {
				lines = n
			}
		}
		height := float64(lines) * lineHeight

		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i := range data.Headers {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.SetXY(x+1, y)
			pdf.MultiCell(widths[i]-2, lineHeight, cells[i], "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(pdf.GetX()-sum(widths), y+height)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(data Dataset, total float64) []float64 {
	widths := make([]float64, len(data.Headers))
	if len(data.Widths) == len(data.Headers) {
		var weight float64
		for _, w := range data.Widths {
			weight += w
		}
		if weight > 0 {
			for i, w := range data.Widths {
				widths[i] = total * w / weight
			}
			return widths
		}
	}
	for i := range widths {
		widths[i] = total / float64(len(widths))
	}
	return widths
}

// asciiOnly replaces characters the core fonts cannot encode.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 126 || (r < 32 && r != '\n') {
			return '?'
		}
		return r
	}, s)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
