package terminal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `[
	{"Account":"Acme","Date":"2024-03-01","Total":10000,"Profit":4000,"User":"Jane Doe"},
	{"Account":"Acme","Date":"2023-06-10","Total":50000,"Profit":30000,"User":"Jane Doe"},
	{"Account":"Beta","Date":"2024-01-05","Total":5000,"Profit":3500,"User":"Sam"},
	{"Account":"Test Corp","Date":"2024-01-05","Total":1,"Profit":1,"User":"Sam"}
]`

func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out})
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestCLI_Report(t *testing.T) {
	out, err := run(t, "report", "--input", writePayload(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Customer Ranking - 3 Year Report")
	assert.Contains(t, out, "=== Rank A (>$30K margin) ===")
	assert.Contains(t, out, "=== Rank B ($3K-$30K margin) ===")
	assert.NotContains(t, out, "Rank C")
	assert.Contains(t, out, "$34,000")
	assert.Contains(t, out, "RANK TOTAL")
	assert.NotContains(t, out, "Test Corp")
}

func TestCLI_ReportFilterAndSort(t *testing.T) {
	out, err := run(t, "report", "-i", writePayload(t), "--user", "Sam", "--sort", "totalSales:2024", "--sort", "totalSales:2024")
	require.NoError(t, err)

	assert.Contains(t, out, "(Filtered by: Sam)")
	assert.Contains(t, out, "Sorted by: 2024 Total Sales (ascending)")
	assert.NotContains(t, out, "Acme")
}

func TestCLI_ReportEmptyFilter(t *testing.T) {
	out, err := run(t, "report", "-i", writePayload(t), "--user", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No sales records match the current filter.")
}

func TestCLI_ReportUnknownSortKey(t *testing.T) {
	_, err := run(t, "report", "-i", writePayload(t), "--sort", "revenue")
	assert.ErrorIs(t, err, domain.ErrUnknownSortKey)
}

func TestCLI_Users(t *testing.T) {
	out, err := run(t, "users", "-i", writePayload(t))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSam\n", out)
}

func TestCLI_ExportToDirectory(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "-i", writePayload(t), "--format", "csv", "--out", dir, "--user", "Jane Doe")
	require.NoError(t, err)

	location := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(location))
	assert.True(t, strings.HasPrefix(filepath.Base(location), "Customer_Ranking_Report_Jane_Doe_"))

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Customer Ranking - 3 Year Report\nFiltered by User: Jane Doe\n"))
}

func TestCLI_ExportEnvelope(t *testing.T) {
	out, err := run(t, "export", "-i", writePayload(t), "--envelope")
	require.NoError(t, err)

	var envelope export.HostPayload
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, "exportCSV", envelope.Mode)
	assert.Contains(t, envelope.CSVData, `"Acme"`)
	assert.Empty(t, envelope.UserFilter)
}

func TestCLI_ExportUnknownFormat(t *testing.T) {
	_, err := run(t, "export", "-i", writePayload(t), "--format", "docx")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestCLI_UnknownSource(t *testing.T) {
	_, err := run(t, "report", "--source", "oracle", "-i", writePayload(t))
	assert.Error(t, err)
}
