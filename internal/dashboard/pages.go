package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/payments"
	"github.com/petrocom/uts/internal/platform/httpx"
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

const selectionPrefix = "select:"

// FilterView describes one categorical dropdown.
type FilterView struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

// ListView is the response of a dataset list page.
type ListView struct {
	Dataset    string               `json:"dataset"`
	Title      string               `json:"title"`
	Query      string               `json:"q,omitempty"`
	Filters    []FilterView         `json:"filters"`
	Rows       []records.SummaryRow `json:"rows"`
	Pagination shared.Pagination    `json:"pagination"`
	Empty      bool                 `json:"empty"`
	Selected   string               `json:"selected,omitempty"`
}

// DetailResponse is the response of a record detail page.
type DetailResponse struct {
	Dataset string             `json:"dataset"`
	Record  records.DetailView `json:"record"`
	Status  string             `json:"status,omitempty"`
	Actions []payments.Action  `json:"actions,omitempty"`
}

// DatasetLink is one dataset entry on an overview.
type DatasetLink struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Href  string `json:"href"`
	Count int    `json:"count"`
}

// Chart is one aggregate series for the chart sink.
type Chart struct {
	Dataset string          `json:"dataset"`
	Group   string          `json:"group"`
	Sum     string          `json:"sum,omitempty"`
	Points  []records.Point `json:"points"`
}

// Overview is the landing page of a role dashboard.
type Overview struct {
	Role     shared.Role   `json:"role"`
	User     string        `json:"user"`
	Datasets []DatasetLink `json:"datasets"`
	Charts   []Chart       `json:"charts"`
}

func (h *Handler) overview(role shared.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := Overview{Role: role, Datasets: []DatasetLink{}, Charts: []Chart{}}
		if u, ok := gate.UserFromContext(r.Context()); ok {
			out.User = u.DisplayName()
		}
		for _, d := range h.catalog.ForRole(role) {
			work, _, err := h.workingCopy(r, d)
			if err != nil {
				h.respondError(w, r, "build working copy", err)
				return
			}
			out.Datasets = append(out.Datasets, DatasetLink{Name: d.Name, Title: d.Title, Href: datasetPath(d), Count: work.Len()})
			if d.ChartGroup == "" {
				continue
			}
			points, err := records.Aggregate(d.Schema(), work.Records(), d.ChartGroup, d.ChartSum)
			if err != nil {
				h.respondError(w, r, "aggregate", err)
				return
			}
			out.Charts = append(out.Charts, Chart{Dataset: d.Name, Group: d.ChartGroup, Sum: d.ChartSum, Points: points})
		}
		httpx.JSON(w, http.StatusOK, out)
	}
}

// run filters and sorts the request's working copy of d.
func (h *Handler) run(r *http.Request, d *datasets.Dataset) (records.Query, records.Result, error) {
	q, err := h.parseQuery(d, r.URL.Query())
	if err != nil {
		return q, records.Result{}, err
	}
	work, _, err := h.workingCopy(r, d)
	if err != nil {
		return q, records.Result{}, err
	}
	res, err := records.Run(work, q, records.WithClock(h.now))
	return q, res, err
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	d := datasetFromContext(r.Context())
	q, res, err := h.run(r, d)
	if err != nil {
		var ferrs fieldErrors
		if errors.As(err, &ferrs) {
			httpx.ValidationProblem(w, ferrs)
			return
		}
		h.respondError(w, r, "list dataset", err)
		return
	}
	view := ListView{
		Dataset:    d.Name,
		Title:      d.Title,
		Query:      q.Criteria.Query,
		Filters:    make([]FilterView, 0, len(d.Filters)),
		Rows:       d.Projection.Rows(res.Records),
		Pagination: res.Pagination,
		Empty:      res.Empty,
	}
	for _, field := range d.Filters {
		f, _ := d.Schema().Field(field)
		selected := q.Criteria.Equals[field]
		if selected == "" {
			selected = records.All
		}
		view.Filters = append(view.Filters, FilterView{Field: field, Label: f.Label, Options: d.Options(field), Selected: selected})
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sel := loadSelection(sess, d)
		view.Selected, _ = sel.Selected()
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	d := datasetFromContext(r.Context())
	id := chi.URLParam(r, "id")
	work, _, err := h.workingCopy(r, d)
	if err != nil {
		h.respondError(w, r, "build working copy", err)
		return
	}
	rec, ok := work.Find(id)
	if !ok {
		h.respondError(w, r, "find record", records.ErrNotFound)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sel := loadSelection(sess, d)
		if sel.Select(id) {
			saveSelection(sess, d, sel)
		}
	}
	out := DetailResponse{Dataset: d.Name, Record: d.Projection.Detail(rec)}
	if d.Workflow != nil {
		if status, err := payments.ParseStatus(rec.Text(d.Workflow.Field)); err == nil {
			out.Status = status.Label()
			out.Actions = payments.Available(status)
		} else {
			h.logger.Warn("unknown workflow status", slog.String("dataset", d.Name), slog.String("id", id))
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}

// clearSelection closes the detail view. The record itself is untouched.
func (h *Handler) clearSelection(w http.ResponseWriter, r *http.Request) {
	d := datasetFromContext(r.Context())
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sel := loadSelection(sess, d)
		sel.Clear()
		saveSelection(sess, d, sel)
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSelection reads the session's open record for d.
func loadSelection(sess *shared.Session, d *datasets.Dataset) records.Selection {
	return records.RestoreSelection(sess.Get(selectionPrefix + d.Name))
}

func saveSelection(sess *shared.Session, d *datasets.Dataset, sel records.Selection) {
	if id, ok := sel.Selected(); ok {
		sess.Set(selectionPrefix+d.Name, id)
		return
	}
	sess.Delete(selectionPrefix + d.Name)
}
