package snapshots

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TriggerDedup drops repeated manual trigger requests for the same camera
// inside a short window. Operators double-click; the capture agent does
// not need two snapshots a second apart.
type TriggerDedup struct {
	cache *lru.Cache[string, time.Time]
	ttl   time.Duration
	now   func() time.Time
}

func NewTriggerDedup(maxKeys int, ttl time.Duration) *TriggerDedup {
	if maxKeys <= 0 {
		maxKeys = 1024
	}
	c, _ := lru.New[string, time.Time](maxKeys)
	return &TriggerDedup{cache: c, ttl: ttl, now: time.Now}
}

// ShouldSkip reports whether this camera was triggered within the TTL.
// A miss records the trigger.
func (d *TriggerDedup) ShouldSkip(cameraName, nvrIP string) bool {
	key := fmt.Sprintf("%s|%s", cameraName, nvrIP)
	if triggeredAt, ok := d.cache.Get(key); ok {
		if d.now().Sub(triggeredAt) < d.ttl {
			return true
		}
	}
	d.cache.Add(key, d.now())
	return false
}
