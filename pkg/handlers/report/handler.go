package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/account-ranking/pkg/adapters"
	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/api"
	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/services/payload"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/store/artifact"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxPayloadBytes = 64 << 20

type Handler struct {
	session   *ranking.Session
	exporters export.Registry
	sink      artifact.Sink
	labels    export.Labels
	now       func() time.Time
}

func NewHandler(
	session *ranking.Session,
	exporters export.Registry,
	sink artifact.Sink,
	labels export.Labels,
) *Handler {
	return &Handler{
		session:   session,
		exporters: exporters,
		sink:      sink,
		labels:    labels,
		now:       time.Now,
	}
}

// LoadRecords replaces the session batch with the request body payload.
func (h *Handler) LoadRecords(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	records, err := payload.Read(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		if payload.IsInputFormatError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Msg("failed to read sales payload")
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	h.session.Load(records)
	logger.Info().Int("records", len(records)).Msg("sales records loaded")

	writeJSON(w, r, http.StatusOK, api.LoadResponse{
		Records: len(records),
		Users:   h.session.Users(),
	})
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.writeReport(w, r)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.session.Users())
}

// SetFilter changes the user filter and responds with the rebuilt report.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req api.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid filter request", http.StatusBadRequest)
		return
	}

	h.session.SetFilter(req.User)
	h.writeReport(w, r)
}

// ToggleSort applies one column click and responds with the rebuilt report.
func (h *Handler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	var req api.SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid sort request", http.StatusBadRequest)
		return
	}

	key, err := domain.ParseSortKey(req.Key)
	if err != nil || key == domain.SortKeyNone {
		http.Error(w, fmt.Sprintf("unknown sort key %q", req.Key), http.StatusBadRequest)
		return
	}

	h.session.ToggleSort(key, req.Year)
	h.writeReport(w, r)
}

// DownloadExport streams the export in the requested format.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.render(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if _, err := w.Write(result.Data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write export")
	}
}

// StoreExport writes the export to the configured sink and returns where it
// was stored.
func (h *Handler) StoreExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, ok := h.render(w, r)
	if !ok {
		return
	}

	location, err := h.sink.Put(ctx, result.Filename, result.ContentType, result.Data)
	if err != nil {
		logger.Error().Err(err).Str("filename", result.Filename).Msg("failed to store export")
		http.Error(w, "failed to store export", http.StatusInternalServerError)
		return
	}

	logger.Info().Str("location", location).Str("mode", result.Mode()).Msg("export stored")
	writeJSON(w, r, http.StatusCreated, api.ExportResponse{
		Filename:      result.Filename,
		Mode:          result.Mode(),
		UserFilter:    result.UserFilter,
		GeneratedDate: result.GeneratedAt.UTC(),
		Location:      location,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) (export.Artifact, bool) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	format := chi.URLParam(r, "format")

	exporter, err := h.exporters.Get(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return export.Artifact{}, false
	}

	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return export.Artifact{}, false
	}

	result, err := export.Render(exporter, export.View{
		Report:      snapshot.Report,
		Sort:        snapshot.Sort,
		FilterUser:  snapshot.FilterUser,
		GeneratedAt: h.now(),
		Labels:      h.labels,
	})
	if err != nil {
		logger.Error().Err(err).Str("format", format).Msg("failed to render export")
		http.Error(w, "failed to render export", http.StatusInternalServerError)
		return export.Artifact{}, false
	}
	return result, true
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (ranking.Snapshot, bool) {
	snapshot, err := h.session.Build(r.Context())
	if err != nil {
		if errors.Is(err, ranking.ErrNotLoaded) {
			http.Error(w, err.Error(), http.StatusConflict)
			return ranking.Snapshot{}, false
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to build report")
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return ranking.Snapshot{}, false
	}
	return snapshot, true
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainReportToAPI(
		snapshot.Report, snapshot.Sort, snapshot.FilterUser, h.labels))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
