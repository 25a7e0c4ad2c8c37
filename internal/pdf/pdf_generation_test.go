package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatement() StatementData {
	opened := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return StatementData{
		ClientID:      "c-1",
		ClientName:    "Ram Shrestha",
		AccountNumber: "ACC-100",
		OpeningDate:   opened,
		PlanPrice:     decimal.NewFromInt(1500),
		Payments: []StatementLine{
			{Date: opened.AddDate(0, 1, 0), Title: "February plan", Amount: decimal.NewFromInt(1500)},
			{Date: opened.AddDate(0, 2, 0), Title: "March plan", Notes: "cash", Amount: decimal.RequireFromString("1499.99")},
		},
		Total:       decimal.RequireFromString("2999.99"),
		GeneratedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenderStatementProducesPDF(t *testing.T) {
	g := NewStatementGenerator(t.TempDir(), "")
	var buf bytes.Buffer
	require.NoError(t, g.RenderStatement(&buf, sampleStatement()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderStatementWithoutPayments(t *testing.T) {
	g := NewStatementGenerator(t.TempDir(), "")
	data := sampleStatement()
	data.Payments = nil
	data.Total = decimal.Zero
	var buf bytes.Buffer
	require.NoError(t, g.RenderStatement(&buf, data))
	assert.NotZero(t, buf.Len())
}

func TestSaveStatementStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	g := NewStatementGenerator(root, "")
	data := sampleStatement()
	data.Filename = "../../escape.pdf"

	path, err := g.SaveStatement(data)
	require.NoError(t, err)
	assert.Equal(t, "/escape.pdf", path)
	_, err = os.Stat(filepath.Join(root, "escape.pdf"))
	assert.NoError(t, err)
}

func TestSaveStatementDefaultName(t *testing.T) {
	g := NewStatementGenerator(t.TempDir(), "")
	path, err := g.SaveStatement(sampleStatement())
	require.NoError(t, err)
	assert.Equal(t, "/statement_c-1_20240401.pdf", path)
}
