package plan

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Altinity/site-sync/structs"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func remote(pairs ...string) []structs.RemoteObject {
	var objs []structs.RemoteObject
	for i := 0; i < len(pairs); i += 2 {
		objs = append(objs, structs.RemoteObject{
			Key:  "site/" + pairs[i],
			Path: pairs[i],
			ETag: pairs[i+1],
		})
	}

	return objs
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		local  map[string]string
		remote []structs.RemoteObject
		create []string
		update []string
		delete []string
	}{
		{
			name:   "Empty",
			local:  map[string]string{},
			create: []string{},
			update: []string{},
			delete: []string{},
		},
		{
			name:   "First publish",
			local:  map[string]string{"index.html": "a", "logo.png": "b"},
			create: []string{"index.html", "logo.png"},
			update: []string{},
			delete: []string{},
		},
		{
			name:   "Mixed",
			local:  map[string]string{"index.html": "h1", "about.html": "a1", "new.css": "c1"},
			remote: remote("index.html", "h0", "about.html", "a1", "old.js", "j0"),
			create: []string{"new.css"},
			update: []string{"index.html"},
			delete: []string{"old.js"},
		},
		{
			name:   "In sync",
			local:  map[string]string{"index.html": "h"},
			remote: remote("index.html", "h"),
			create: []string{},
			update: []string{},
			delete: []string{},
		},
		{
			name:   "Rename is delete and create",
			local:  map[string]string{"b.html": "x"},
			remote: remote("a.html", "x"),
			create: []string{"b.html"},
			update: []string{},
			delete: []string{"a.html"},
		},
		{
			name:   "Everything removed",
			local:  map[string]string{},
			remote: remote("a", "1", "b", "2"),
			create: []string{},
			update: []string{},
			delete: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Diff(tt.local, tt.remote)

			assert.Equal(t, tt.create, p.Creates())
			assert.Equal(t, tt.update, p.Updates())
			assert.Equal(t, tt.delete, p.Deletions())
			assert.Equal(t, len(tt.create)+len(tt.update)+len(tt.delete) == 0, p.Empty())
		})
	}
}

func TestPlan_UploadsAndSummary(t *testing.T) {
	p := Diff(
		map[string]string{"c": "1", "a": "2", "b": "3"},
		remote("b", "0", "z", "9"),
	)

	assert.Equal(t, []string{"a", "b", "c"}, p.Uploads())
	assert.Equal(t, Summary{Create: 2, Update: 1, Delete: 1}, p.Summary())
}

func TestDiff_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		local := map[string]string{}
		var objs []structs.RemoteObject

		for j := 0; j < 40; j++ {
			path := fmt.Sprintf("f%02d", j)
			fp := fmt.Sprintf("%d", rng.Intn(2))

			switch rng.Intn(4) {
			case 0:
				local[path] = fp
			case 1:
				objs = append(objs, structs.RemoteObject{Path: path, ETag: fp})
			case 2:
				local[path] = fp
				objs = append(objs, structs.RemoteObject{Path: path, ETag: fmt.Sprintf("%d", rng.Intn(2))})
			}
		}

		p := Diff(local, objs)

		assert.True(t, p.Create.Intersect(p.Update).IsEmpty())
		assert.True(t, p.Create.Intersect(p.Delete).IsEmpty())
		assert.True(t, p.Update.Intersect(p.Delete).IsEmpty())

		localSet := mapset.NewThreadUnsafeSet[string]()
		for path := range local {
			localSet.Add(path)
		}
		remoteSet := mapset.NewThreadUnsafeSet[string]()
		etags := map[string]string{}
		for _, obj := range objs {
			remoteSet.Add(obj.Path)
			etags[obj.Path] = obj.ETag
		}

		assert.True(t, p.Create.Equal(localSet.Difference(remoteSet)))
		assert.True(t, p.Delete.Equal(remoteSet.Difference(localSet)))

		// Every path in the union is either planned or unchanged
		localSet.Intersect(remoteSet).Each(func(path string) bool {
			changed := local[path] != etags[path]
			assert.Equal(t, changed, p.Update.Contains(path), path)
			return false
		})
	}
}
