// Package plan computes the reconciliation between the local site and its
// published namespace.
package plan

import (
	"slices"

	"github.com/Altinity/site-sync/structs"
	mapset "github.com/deckarep/golang-set/v2"
)

// Plan partitions the union of local and remote paths. A path appears in at
// most one of the three sets; unchanged paths appear in none.
type Plan struct {
	Create mapset.Set[string]
	Update mapset.Set[string]
	Delete mapset.Set[string]
}

// Summary holds the set sizes.
type Summary struct {
	Create int `json:"create" yaml:"create"`
	Update int `json:"update" yaml:"update"`
	Delete int `json:"delete" yaml:"delete"`
}

func New() *Plan {
	return &Plan{
		Create: mapset.NewThreadUnsafeSet[string](),
		Update: mapset.NewThreadUnsafeSet[string](),
		Delete: mapset.NewThreadUnsafeSet[string](),
	}
}

// Diff compares local fingerprints, keyed by path, with the remote listing.
// A path is updated when its fingerprint differs from the remote ETag.
func Diff(local map[string]string, remote []structs.RemoteObject) *Plan {
	p := New()

	etags := make(map[string]string, len(remote))
	for _, obj := range remote {
		etags[obj.Path] = obj.ETag
	}

	for path, fingerprint := range local {
		etag, ok := etags[path]
		switch {
		case !ok:
			p.Create.Add(path)
		case etag != fingerprint:
			p.Update.Add(path)
		}
	}

	for path := range etags {
		if _, ok := local[path]; !ok {
			p.Delete.Add(path)
		}
	}

	return p
}

func (p *Plan) Empty() bool {
	return p.Create.IsEmpty() && p.Update.IsEmpty() && p.Delete.IsEmpty()
}

// Uploads returns Create and Update merged, sorted.
func (p *Plan) Uploads() []string {
	return sorted(p.Create.Union(p.Update))
}

// Deletions returns Delete, sorted.
func (p *Plan) Deletions() []string {
	return sorted(p.Delete)
}

func (p *Plan) Creates() []string {
	return sorted(p.Create)
}

func (p *Plan) Updates() []string {
	return sorted(p.Update)
}

func (p *Plan) Summary() Summary {
	return Summary{
		Create: p.Create.Cardinality(),
		Update: p.Update.Cardinality(),
		Delete: p.Delete.Cardinality(),
	}
}

func sorted(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)

	return out
}
