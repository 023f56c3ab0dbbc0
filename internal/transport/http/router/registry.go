package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule mounts its routes on the API group.
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// Optional: lower priority mounts first. Modules without it get 100.
type prioritizer interface{ Priority() int }

// Mount mounts mods on g in priority order; ties keep argument order.
func Mount(g *gin.RouterGroup, mods ...APIModule) {
	sorted := append([]APIModule(nil), mods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(sorted[i]) < priorityOf(sorted[j])
	})
	for _, m := range sorted {
		m.MountAPI(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
