package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Renderer turns a report into a document.
type Renderer interface {
	Render(ctx context.Context, report Report) ([]byte, error)
}

type column struct {
	title string
	width float64
	align string
}

var (
	orderColumns = []column{
		{title: "#", width: 12, align: "R"},
		{title: "Customer", width: 40, align: "L"},
		{title: "Product", width: 46, align: "L"},
		{title: "Price", width: 24, align: "R"},
		{title: "Status", width: 30, align: "L"},
		{title: "Date ordered", width: 28, align: "L"},
	}
	customerColumns = []column{
		{title: "Customer", width: 60, align: "L"},
		{title: "Phone", width: 40, align: "L"},
		{title: "Email", width: 80, align: "L"},
	}
)

const (
	rowHeight = 7
	// cellPadding is the room fpdf leaves on each side of a cell.
	cellPadding = 1
	ellipsis    = "..."
)

// PDFRenderer lays reports out on A4 pages.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(ctx context.Context, report Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Order Report", true)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetModificationDate(report.GeneratedAt)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Order Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Total orders", strconv.Itoa(report.TotalOrders)},
		{"Delivered", strconv.Itoa(report.Stats.Delivered)},
		{"In the stash", strconv.Itoa(report.Stats.InTheStash)},
		{"On the courier", strconv.Itoa(report.Stats.OnTheCourier)},
		{"Total value", report.TotalValue.StringFixed(2)},
	}
	for _, line := range summary {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	section(pdf, "Orders")
	header(pdf, orderColumns)
	pdf.SetFont("Helvetica", "", 9)
	for _, o := range report.Orders {
		cells := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			tr(o.CustomerName),
			tr(o.ProductName),
			o.ProductPrice.StringFixed(2),
			string(o.Status),
			o.DateCreated.Format("2006-01-02"),
		}
		for i, col := range orderColumns {
			pdf.CellFormat(col.width, rowHeight, fit(pdf, cells[i], col.width), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	section(pdf, "Customers")
	header(pdf, customerColumns)
	pdf.SetFont("Helvetica", "", 9)
	for _, c := range report.Customers {
		cells := []string{tr(c.Name), tr(c.Phone), tr(c.Email)}
		for i, col := range customerColumns {
			pdf.CellFormat(col.width, rowHeight, fit(pdf, cells[i], col.width), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func header(pdf *fpdf.Fpdf, columns []column) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens s with a trailing ellipsis until it fits a cell of the given
// width in the current font. s is already in the single-byte font encoding.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	room := width - 2*cellPadding
	if pdf.GetStringWidth(s) <= room {
		return s
	}
	for n := len(s) - 1; n > 0; n-- {
		if cut := s[:n] + ellipsis; pdf.GetStringWidth(cut) <= room {
			return cut
		}
	}
	return ""
}
