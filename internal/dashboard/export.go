package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/records"
)

var fallbackTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pdf":  "application/pdf",
}

// exportRows returns the whole filtered and sorted view, ignoring paging.
func (h *Handler) exportRows(w http.ResponseWriter, r *http.Request) (*datasets.Dataset, []records.Record, bool) {
	d := datasetFromContext(r.Context())
	_, res, err := h.run(r, d)
	if err != nil {
		var ferrs fieldErrors
		if errors.As(err, &ferrs) {
			httpx.ValidationProblem(w, ferrs)
			return nil, nil, false
		}
		h.respondError(w, r, "export dataset", err)
		return nil, nil, false
	}
	return d, res.Matched, true
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	d, recs, ok := h.exportRows(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := records.WriteCSV(&buf, d.Schema(), recs); err != nil {
		h.respondError(w, r, "encode csv", err)
		return
	}
	h.sendFile(w, r, d, ".csv", buf.Bytes())
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	d, recs, ok := h.exportRows(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := records.WriteXLSX(&buf, d.Schema(), recs); err != nil {
		h.respondError(w, r, "encode xlsx", err)
		return
	}
	h.sendFile(w, r, d, ".xlsx", buf.Bytes())
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.RespondError(w, fmt.Errorf("%w: pdf rendering is not configured", httpx.ErrUnavailable))
		return
	}
	d, recs, ok := h.exportRows(w, r)
	if !ok {
		return
	}
	html, err := records.RenderHTMLTable(d.Title, d.Schema(), d.Projection, recs)
	if err != nil {
		h.respondError(w, r, "render html", err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render pdf", slog.String("dataset", d.Name), slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: pdf renderer failed", httpx.ErrUnavailable))
		return
	}
	h.sendFile(w, r, d, ".pdf", pdf)
}

func (h *Handler) sendFile(w http.ResponseWriter, r *http.Request, d *datasets.Dataset, ext string, body []byte) {
	ctype := mime.TypeByExtension(ext)
	if ctype == "" {
		ctype = fallbackTypes[ext]
	}
	name := fmt.Sprintf("%s-%s%s", d.Name, h.now().UTC().Format("20060102"), ext)
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("write export", slog.String("path", r.URL.Path), slog.Any("error", err))
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport(d.Name, ext[1:])
	}
}
