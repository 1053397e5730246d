package payments

import (
	"github.com/petrocom/uts/internal/records"
	"github.com/petrocom/uts/internal/shared"
)

const overlayPrefix = "status:"

// Overlay remembers the statuses a session has applied to one dataset so
// that each request can rebuild the session's working copy from the seed.
type Overlay struct {
	store   shared.ValueStore
	dataset string
}

// NewOverlay binds an overlay to a session store and dataset name.
func NewOverlay(store shared.ValueStore, dataset string) *Overlay {
	return &Overlay{store: store, dataset: dataset}
}

// Prefix is the session key prefix used for dataset.
func Prefix(dataset string) string {
	return overlayPrefix + dataset + ":"
}

func (o *Overlay) key(id string) string {
	return Prefix(o.dataset) + id
}

// Remember records the status of id.
func (o *Overlay) Remember(id string, s Status) {
	if o == nil || o.store == nil {
		return
	}
	o.store.Set(o.key(id), string(s))
}

// Status returns the remembered status of id.
func (o *Overlay) Status(id string) (Status, bool) {
	if o == nil || o.store == nil {
		return "", false
	}
	raw := o.store.Get(o.key(id))
	if raw == "" {
		return "", false
	}
	s, err := ParseStatus(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

// WorkingCopy clones seed and replays remembered statuses onto it.
func (o *Overlay) WorkingCopy(seed *records.Collection, w Workflow) (*records.Collection, error) {
	work := seed.Clone()
	for _, rec := range seed.Records() {
		id := rec.Text(seed.Schema().Key())
		s, ok := o.Status(id)
		if !ok {
			continue
		}
		if err := work.Set(id, w.Field, string(s)); err != nil {
			return nil, err
		}
	}
	return work, nil
}

// Transition applies a on the working copy and remembers the outcome.
func (o *Overlay) Transition(work *records.Collection, w Workflow, id string, a Action) (Status, error) {
	to, err := w.Apply(work, id, a)
	if err != nil {
		return "", err
	}
	o.Remember(id, to)
	return to, nil
}
