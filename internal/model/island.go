package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Island is one of the fixed thematic tracks.
type Island int64

const (
	IslandWork          Island = 1
	IslandFamily        Island = 2
	IslandRelationships Island = 3
	IslandHealth        Island = 4
)

// Islands lists every island in id order.
var Islands = []Island{IslandWork, IslandFamily, IslandRelationships, IslandHealth}

var islandNames = map[Island]string{
	IslandWork:          "work",
	IslandFamily:        "family",
	IslandRelationships: "relationships",
	IslandHealth:        "health",
}

var islandAliases = map[string]Island{
	"work":           IslandWork,
	"education":      IslandWork,
	"work-education": IslandWork,
	"trabajo":        IslandWork,
	"family":         IslandFamily,
	"familia":        IslandFamily,
	"relationships":  IslandRelationships,
	"relaciones":     IslandRelationships,
	"health":         IslandHealth,
	"salud":          IslandHealth,
}

// Valid reports whether i belongs to the enumeration.
func (i Island) Valid() bool {
	_, ok := islandNames[i]
	return ok
}

func (i Island) String() string {
	if name, ok := islandNames[i]; ok {
		return name
	}
	return "island(" + strconv.FormatInt(int64(i), 10) + ")"
}

// ParseIsland resolves an island from its name or its numeric id.
func ParseIsland(s string) (Island, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if island, ok := islandAliases[key]; ok {
		return island, nil
	}
	if n, err := strconv.ParseInt(key, 10, 64); err == nil && Island(n).Valid() {
		return Island(n), nil
	}
	return 0, fmt.Errorf("unknown island %q", s)
}
