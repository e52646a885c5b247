package flow

import (
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/fleet-archiver/fleet"
)

// Flow names of the statically configured views.
const (
	GeneralFlow  = "general"
	RegionalFlow = "regional"
)

// RegionalLineCodes is the default set of regional service codes.
// Membership is matched case-sensitively against the upstream field.
var RegionalLineCodes = []string{"R1", "R11", "R14", "R15", "R16", "R2", "R2N", "R2S", "R4"}

// Predicate decides whether a record belongs to a flow's output. A
// non-nil error means the record's shape defeats the rule; Apply skips
// such records instead of failing the flow.
type Predicate func(fleet.Record) (bool, error)

// Definition is a named rule deriving one output view from a snapshot.
// Definitions are built at startup and never mutated afterwards.
type Definition struct {
	Name      string
	predicate Predicate
}

// NewDefinition builds a flow from a name and a predicate. A nil
// predicate passes every record through.
func NewDefinition(name string, pred Predicate) Definition {
	return Definition{Name: name, predicate: pred}
}

// General returns the identity flow: every record passes through.
func General() Definition {
	return Definition{Name: GeneralFlow}
}

// Regional returns the flow selecting records whose line code is a
// member of codes (RegionalLineCodes when none are given).
func Regional(codes ...string) Definition {
	if len(codes) == 0 {
		codes = RegionalLineCodes
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return Definition{
		Name: RegionalFlow,
		predicate: func(r fleet.Record) (bool, error) {
			code, ok := r.LineCode()
			if !ok {
				return false, fmt.Errorf("record has no usable %q field", fleet.LineCodeField)
			}
			_, member := set[code]
			return member, nil
		},
	}
}

// Defaults returns the statically configured flows, general first.
func Defaults() []Definition {
	return []Definition{General(), Regional()}
}

// Result is the output of applying one Definition to one snapshot.
// Records is never nil; empty is a valid result, not an error.
type Result struct {
	Flow        string
	GeneratedAt time.Time
	Records     []fleet.Record
	Skipped     int
}

// Apply evaluates one flow against a snapshot. The result is stamped
// with the snapshot's capture time so every flow of one cycle shares
// the same artifact timestamp.
func Apply(def Definition, snap *fleet.Snapshot) Result {
	res := Result{Flow: def.Name, Records: []fleet.Record{}}
	if snap == nil {
		return res
	}
	res.GeneratedAt = snap.FetchedAt

	if def.predicate == nil {
		res.Records = append(res.Records, snap.Records...)
		return res
	}
	for _, r := range snap.Records {
		member, err := def.predicate(r)
		if err != nil {
			res.Skipped++
			continue
		}
		if member {
			res.Records = append(res.Records, r)
		}
	}
	return res
}
