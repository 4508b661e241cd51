package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/api"
	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const fixturePayload = `{"value":[
	{"Account":"Acme","Date":"2024-03-01","Total":10000,"Profit":4000,"User":"A"},
	{"Account":"Acme","Date":"2023-06-10","Total":50000,"Profit":30000,"User":"A"},
	{"Account":"Beta","Date":"2024-01-05","Total":"5000","Profit":"3500","User":"B"},
	{"Account":"Gamma","Date":"2024-02-01","Total":900,"Profit":100,"User":"B","Status":"Canceled"}
]}`

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, name, contentType, data)
	return args.String(0), args.Error(1)
}

func setupRouter(sink *mockSink) http.Handler {
	session := ranking.NewSession(ranking.NewAssembler(ranking.DefaultSettings()))
	h := NewHandler(session, export.DefaultRegistry(), sink, export.NewLabels(30000, 3000, domain.BasisMargin))
	h.now = func() time.Time { return time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Post("/records", h.LoadRecords)
	r.Get("/report", h.GetReport)
	r.Get("/users", h.ListUsers)
	r.Put("/filter", h.SetFilter)
	r.Post("/sort", h.ToggleSort)
	r.Get("/export/{format}", h.DownloadExport)
	r.Post("/export/{format}", h.StoreExport)
	return r
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func loaded(t *testing.T, sink *mockSink) http.Handler {
	t.Helper()
	router := setupRouter(sink)
	rec := do(t, router, http.MethodPost, "/records", fixturePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	return router
}

func TestGetReport_NotLoaded(t *testing.T) {
	rec := do(t, setupRouter(new(mockSink)), http.MethodGet, "/report", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoadRecords(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "envelope", body: fixturePayload, expectedStatus: http.StatusOK},
		{name: "not json", body: `{"value":`, expectedStatus: http.StatusBadRequest},
		{name: "not an array", body: `{"value":{}}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, setupRouter(new(mockSink)), http.MethodPost, "/records", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}

	rec := do(t, setupRouter(new(mockSink)), http.MethodPost, "/records", fixturePayload)
	assert.Equal(t, api.LoadResponse{Records: 4, Users: []string{"A", "B"}}, decode[api.LoadResponse](t, rec))
}

func TestGetReport(t *testing.T) {
	router := loaded(t, new(mockSink))

	rec := do(t, router, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	report := decode[api.Report](t, rec)
	assert.False(t, report.Empty)
	assert.Equal(t, []int{2024, 2023}, report.Years)
	require.Len(t, report.Rankings, 3)

	a := report.Rankings[0]
	assert.Equal(t, "A", a.Ranking)
	assert.Equal(t, "A (>$30K margin)", a.Label)
	require.Len(t, a.Accounts, 1)
	assert.Equal(t, "Acme", a.Accounts[0].Name)
	assert.Equal(t, 34000.0, a.Accounts[0].TotalMargin)
	assert.Equal(t, []api.YearTotals{
		{Year: 2024, TotalSales: 10000, TotalMargin: 4000, Count: 1},
		{Year: 2023, TotalSales: 50000, TotalMargin: 30000, Count: 1},
	}, a.Accounts[0].Years)

	b := report.Rankings[1]
	require.Len(t, b.Accounts, 1)
	assert.Equal(t, "Beta", b.Accounts[0].Name)
	assert.Equal(t, []api.YearTotals{
		{Year: 2024, TotalSales: 5000, TotalMargin: 3500, Count: 1},
		{Year: 2023},
	}, b.Accounts[0].Years)

	assert.Empty(t, report.Rankings[2].Accounts)
}

func TestSetFilter(t *testing.T) {
	router := loaded(t, new(mockSink))

	rec := do(t, router, http.MethodPut, "/filter", `{"user":"B"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[api.Report](t, rec)
	assert.Equal(t, "B", report.FilterUser)
	assert.Empty(t, report.Rankings[0].Accounts)
	assert.Equal(t, []int{2024}, report.Years)

	rec = do(t, router, http.MethodPut, "/filter", `{"user":"nobody"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[api.Report](t, rec).Empty)

	rec = do(t, router, http.MethodPut, "/filter", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleSort(t *testing.T) {
	router := loaded(t, new(mockSink))

	rec := do(t, router, http.MethodPost, "/sort", `{"key":"totalSales","year":2024}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.Sort{Key: "totalSales", Direction: "desc", Year: 2024}, decode[api.Report](t, rec).Sort)

	rec = do(t, router, http.MethodPost, "/sort", `{"key":"totalSales","year":2024}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.Sort{Key: "totalSales", Direction: "asc", Year: 2024}, decode[api.Report](t, rec).Sort)

	for _, body := range []string{`{"key":"revenue"}`, `{"key":""}`, `{`} {
		rec = do(t, router, http.MethodPost, "/sort", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec = do(t, router, http.MethodGet, "/report", "")
	assert.Equal(t, "asc", decode[api.Report](t, rec).Sort.Direction)
}

func TestListUsers(t *testing.T) {
	rec := do(t, loaded(t, new(mockSink)), http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A", "B"}, decode[[]string](t, rec))
}

func TestDownloadExport(t *testing.T) {
	router := loaded(t, new(mockSink))
	do(t, router, http.MethodPut, "/filter", `{"user":"A"}`)

	rec := do(t, router, http.MethodGet, "/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Customer_Ranking_Report_A_2025-03-07.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(),
		"Customer Ranking - 3 Year Report\nFiltered by User: A\nGenerated: 3/7/2025\n\n"))

	rec = do(t, router, http.MethodGet, "/export/xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = do(t, router, http.MethodGet, "/export/docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreExport(t *testing.T) {
	sink := new(mockSink)
	sink.On("Put", mock.Anything, "Customer_Ranking_Report_2025-03-07.pdf", "application/pdf",
		mock.MatchedBy(func(data []byte) bool { return bytes.HasPrefix(data, []byte("%PDF-")) })).
		Return("s3://reports/Customer_Ranking_Report_2025-03-07.pdf", nil)

	rec := do(t, loaded(t, sink), http.MethodPost, "/export/pdf", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[api.ExportResponse](t, rec)
	assert.Equal(t, "exportPDF", resp.Mode)
	assert.Equal(t, "s3://reports/Customer_Ranking_Report_2025-03-07.pdf", resp.Location)
	assert.Equal(t, "", resp.UserFilter)
	sink.AssertExpectations(t)
}

func TestStoreExport_SinkFailureKeepsState(t *testing.T) {
	sink := new(mockSink)
	sink.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	router := loaded(t, sink)
	do(t, router, http.MethodPost, "/sort", `{"key":"name"}`)

	rec := do(t, router, http.MethodPost, "/export/csv", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, router, http.MethodGet, "/report", "")
	assert.Equal(t, api.Sort{Key: "name", Direction: "asc"}, decode[api.Report](t, rec).Sort)
}
