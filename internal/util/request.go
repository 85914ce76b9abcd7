package util

import (
	"fmt"
	"math/rand"
)

// GenerateRequestID builds a readable per-request identifier. Masonry-themed
// because every good mount point deserves a solid base.
func GenerateRequestID() string {
	stones := []string{
		"granite", "basalt", "marble", "slate", "limestone",
		"sandstone", "flint", "quartz", "gneiss", "travertine",
	}
	shapes := []string{
		"plinth", "pedestal", "column", "lintel", "keystone",
		"cornice", "footing", "pillar", "arch", "soffit",
	}

	stone := stones[rand.Intn(len(stones))]
	shape := shapes[rand.Intn(len(shapes))]
	suffix := fmt.Sprintf("%04x", rand.Intn(65536))

	return fmt.Sprintf("%s_%s_%s", stone, shape, suffix)
}
