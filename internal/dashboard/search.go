package dashboard

import (
	"net/http"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/platform/httpx"
)

// QuickLink is one search hit.
type QuickLink struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// links lists what a user may open: the role's datasets, then public ones.
func (h *Handler) links(u *gate.User) []QuickLink {
	var out []QuickLink
	for _, d := range h.catalog.ForRole(u.Role) {
		out = append(out, QuickLink{Title: d.Title, Href: datasetPath(d)})
	}
	for _, d := range h.catalog.Public() {
		out = append(out, QuickLink{Title: d.Title, Href: datasetPath(d)})
	}
	return out
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	u, ok := gate.UserFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	links := h.links(u)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" || len(links) == 0 {
		httpx.JSON(w, http.StatusOK, map[string]any{"results": nonNil(links)})
		return
	}

	words := make([]string, len(links))
	for i, l := range links {
		words[i] = l.Title
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Sort(ranks)

	results := make([]QuickLink, 0, len(ranks))
	for _, rank := range ranks {
		results = append(results, links[rank.OriginalIndex])
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"results": results})
}

func nonNil(links []QuickLink) []QuickLink {
	if links == nil {
		return []QuickLink{}
	}
	return links
}
