package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Widths  []float64
	Rows    []map[string]string
}

// Table is one titled page of a report.
type Table struct {
	Title string
	Data  Dataset
}

var timetableHeaders = []string{"Days", "Time", "Course Code", "Description", "Room"}

// widths in mm, summing to the 277mm printable width of landscape A4
var timetableWidths = []float64{20, 40, 35, 142, 40}

// SectionTables builds one table per section in first-seen order.
func SectionTables(assignments []model.Assignment) []Table {
	var tables []Table
	index := make(map[string]int)
	for _, a := range assignments {
		i, ok := index[a.SectionID]
		if !ok {
			i = len(tables)
			index[a.SectionID] = i
			tables = append(tables, Table{
				Title: a.SectionID,
				Data:  Dataset{Headers: timetableHeaders, Widths: timetableWidths},
			})
		}
		tables[i].Data.Rows = append(tables[i].Data.Rows, map[string]string{
			"Days":        string(a.DayPattern),
			"Time":        a.Time(),
			"Course Code": a.CourseCode,
			"Description": a.Description,
			"Room":        a.RoomCode,
		})
	}
	return tables
}

// PDFExporter renders tables into a landscape PDF, one page per table.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render writes the document to w.
func (e *PDFExporter) Render(w io.Writer, title string, tables []Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("pdf requires at least one table")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetTitle(title, true)

	for _, t := range tables {
		if len(t.Data.Headers) == 0 {
			return fmt.Errorf("table %q has no headers", t.Title)
		}
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, t.Title, "", 1, "C", false, 0, "")
		pdf.Ln(3)

		pdf.SetFont("Arial", "B", 10)
		for i, header := range t.Data.Headers {
			pdf.CellFormat(width(t.Data, i), 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range t.Data.Rows {
			for i, header := range t.Data.Headers {
				pdf.CellFormat(width(t.Data, i), 7, row[header], "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// RenderBytes renders the document into memory.
func (e *PDFExporter) RenderBytes(title string, tables []Table) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := e.Render(buf, title, tables); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func width(d Dataset, i int) float64 {
	if i < len(d.Widths) {
		return d.Widths[i]
	}
	return 277.0 / float64(len(d.Headers))
}
