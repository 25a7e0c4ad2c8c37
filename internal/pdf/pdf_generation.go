package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Generator renders client statements. Mocked in service tests.
type Generator interface {
	RenderStatement(w io.Writer, data StatementData) error
	SaveStatement(data StatementData) (string, error)
}

// StatementGenerator lays out statements on A4 pages.
type StatementGenerator struct {
	RootDir  string // archive directory, e.g. "./files"
	FontPath string // TTF with Unicode coverage; core Helvetica when empty
	fontName string
}

type StatementLine struct {
	Date   time.Time
	Title  string
	Notes  string
	Amount decimal.Decimal
}

type StatementData struct {
	ClientID      string
	ClientName    string
	AccountNumber string
	SerialNumber  string
	Mobile        string
	Address       string
	OpeningDate   time.Time
	ClosingDate   *time.Time
	PlanPrice     decimal.Decimal
	Payments      []StatementLine
	Total         decimal.Decimal
	GeneratedAt   time.Time
	Filename      string // file name without directories; derived from ClientID when empty
}

func NewStatementGenerator(rootDir, fontPath string) *StatementGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &StatementGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: name,
	}
}

// SaveStatement writes the statement under RootDir and returns its public path.
func (g *StatementGenerator) SaveStatement(data StatementData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("statement_%s_%s.pdf", data.ClientID, data.GeneratedAt.Format("20060102"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := g.RenderStatement(&buf, data); err != nil {
		return "", err
	}
	if err := os.WriteFile(absPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write statement: %w", err)
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

func (g *StatementGenerator) RenderStatement(w io.Writer, data StatementData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Statement "+data.AccountNumber, true)
	pdf.SetAuthor("tuntun", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addFont(pdf)
	tr := g.translator(pdf)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "STATEMENT OF ACCOUNT", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Client")
	g.kvLine(pdf, tr, "Name", data.ClientName)
	g.kvLine(pdf, tr, "Account", data.AccountNumber)
	if data.SerialNumber != "" {
		g.kvLine(pdf, tr, "Serial", data.SerialNumber)
	}
	if data.Mobile != "" {
		g.kvLine(pdf, tr, "Mobile", data.Mobile)
	}
	if data.Address != "" {
		g.kvLine(pdf, tr, "Address", data.Address)
	}
	g.kvLine(pdf, tr, "Opened", data.OpeningDate.Format("02 Jan 2006"))
	if data.ClosingDate != nil {
		g.kvLine(pdf, tr, "Closed", data.ClosingDate.Format("02 Jan 2006"))
	}
	g.kvLine(pdf, tr, "Plan price", data.PlanPrice.StringFixed(2))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Payments")
	if len(data.Payments) == 0 {
		pdf.CellFormat(0, 7, "No payments recorded.", "", 1, "L", false, 0, "")
	} else {
		g.paymentTable(pdf, tr, data.Payments)
	}
	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(130, 8, "Total paid", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, data.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	return nil
}

func (g *StatementGenerator) paymentTable(pdf *gofpdf.Fpdf, tr func(string) string, lines []StatementLine) {
	widths := []float64{30, 60, 40, 40}
	pdf.SetFont(g.fontName, "B", 10)
	for i, h := range []string{"Date", "Title", "Notes", "Amount"} {
		align := "L"
		if i == 3 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(g.fontName, "", 10)
	for _, l := range lines {
		pdf.CellFormat(widths[0], 6, l.Date.Format("02.01.2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(truncate(l.Title, 34)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(truncate(l.Notes, 22)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, l.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (g *StatementGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *StatementGenerator) kvLine(pdf *gofpdf.Fpdf, tr func(string) string, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(val), "", 1, "L", false, 0, "")
}

func (g *StatementGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *StatementGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}

func (g *StatementGenerator) addFont(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

// translator maps UTF-8 text onto the core font code page; UTF-8 fonts need none.
func (g *StatementGenerator) translator(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath != "" {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}
