package search

import (
	"strings"

	"github.com/matzehuels/waypoint/pkg/errors"
)

// Strategy selects how the explorer avoids walking straight back along the
// edge it just used.
type Strategy int

const (
	// PruneBackEdges removes the node being expanded from each neighbor's
	// adjacency list before descending into that neighbor.
	PruneBackEdges Strategy = iota
	// ExcludeParent leaves the graph untouched and skips the node the
	// explorer arrived from.
	ExcludeParent
)

// Strategy names as accepted by ParseStrategy and used in config files.
const (
	StrategyNamePrune  = "prune"
	StrategyNameParent = "parent"
)

// StrategyNames lists the accepted strategy names.
var StrategyNames = []string{StrategyNamePrune, StrategyNameParent}

// String returns the config name of the strategy.
func (s Strategy) String() string {
	switch s {
	case PruneBackEdges:
		return StrategyNamePrune
	case ExcludeParent:
		return StrategyNameParent
	}
	return "unknown"
}

// ParseStrategy maps a strategy name to its value. Matching ignores case;
// the empty string selects the default.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", StrategyNamePrune:
		return PruneBackEdges, nil
	case StrategyNameParent:
		return ExcludeParent, nil
	}
	return 0, errors.ValidateStrategy(name, StrategyNames)
}
