// Package classification assigns loading-sheet notes to routing categories.
package classification

import (
	"fmt"
	"strings"

	"github.com/Veraticus/loadboard/internal/model"
)

// RedispatchPolicy selects how redispatched notes are labeled.
type RedispatchPolicy string

// Redispatch policies.
const (
	// RedispatchLiteral uses the redispatch destination itself as category.
	RedispatchLiteral RedispatchPolicy = "literal"
	// RedispatchGeneric groups every redispatched note under model.RedispatchCategory.
	RedispatchGeneric RedispatchPolicy = "generic"
)

// cdMarker flags a distribution-center destination, e.g. "CD SAO PAULO".
const cdMarker = "CD "

// ParseRedispatchPolicy validates a configured policy name.
func ParseRedispatchPolicy(s string) (RedispatchPolicy, error) {
	switch p := RedispatchPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RedispatchLiteral, RedispatchGeneric:
		return p, nil
	case "":
		return RedispatchGeneric, nil
	default:
		return "", fmt.Errorf("unknown redispatch policy %q (want %q or %q)", s, RedispatchLiteral, RedispatchGeneric)
	}
}

// Router assigns routing categories to notes under a fixed policy.
type Router struct {
	policy RedispatchPolicy
}

// NewRouter creates a router. An unknown policy behaves as RedispatchGeneric.
func NewRouter(policy RedispatchPolicy) *Router {
	if policy != RedispatchLiteral {
		policy = RedispatchGeneric
	}
	return &Router{policy: policy}
}

// Policy returns the router's redispatch policy.
func (r *Router) Policy() RedispatchPolicy {
	return r.policy
}

// Category returns the routing category of a note. The first matching rule wins:
//  1. a destination containing "CD " is its own category, upper-cased;
//  2. a non-empty redispatch is either its upper-cased value or the
//     REDESPACHO bucket, depending on the policy;
//  3. anything else is delivered directly to the client.
func (r *Router) Category(n model.Note) string {
	if dest := strings.ToUpper(n.Destination); strings.Contains(dest, cdMarker) {
		return strings.TrimSpace(dest)
	}

	if redispatch := strings.ToUpper(strings.TrimSpace(n.Redispatch)); redispatch != "" {
		if r.policy == RedispatchLiteral {
			return redispatch
		}
		return model.RedispatchCategory
	}

	return model.DirectClientCategory
}
