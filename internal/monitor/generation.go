package monitor

import (
	"errors"
	"strings"
	"sync"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

// ErrSuperseded is returned by a fetch that finished after a newer fetch for
// the same subject had already started. Its result is discarded.
var ErrSuperseded = errors.New("superseded by a newer request for the same subject")

// generations tracks the latest fetch per subject key.
type generations struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func newGenerations() *generations {
	return &generations{latest: make(map[string]uint64)}
}

func subjectKey(hazard models.HazardType, subject string) string {
	return string(hazard) + ":" + strings.ToLower(strings.TrimSpace(subject))
}

func (g *generations) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest[key]++
	return g.latest[key]
}

// commit runs fn only if gen is still the latest for key. fn runs under the
// lock so a newer fetch cannot publish in between.
func (g *generations) commit(key string, gen uint64, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest[key] != gen {
		return false
	}
	fn()
	return true
}
