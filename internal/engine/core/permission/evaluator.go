// Package permission evaluates an ordered set of permission rules against a
// (resource, action, context) triple. Precedence is deny-overrides-allow with
// exact actions considered before the wildcard: a deny anywhere in the
// matching set wins, even against a more specific allow.
package permission

import (
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
)

// Decision is the evaluation outcome. NoMatch leaves the default posture to
// the caller; the route guards treat it as deny.
type Decision int

const (
	NoMatch Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case NoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Input is one decoded rule ready for evaluation. Conditions must be decoded
// ahead of time so the evaluator stays pure.
type Input struct {
	ResourceId string
	Action     permission.Action
	Effect     permission.Effect
	Conditions map[string]string
	Status     permission.RuleStatus
}

// Evaluate applies the precedence algorithm:
//
//  1. only active rules for resourceId participate
//  2. rules matching the action exactly are considered before wildcard rules
//  3. a rule matches only if all of its conditions hold in context
//     (an empty condition set always matches)
//  4. any matching deny wins, regardless of which partition it came from
//  5. otherwise any matching allow wins
//  6. otherwise NoMatch
func Evaluate(rules []Input, resourceId string, action permission.Action, context map[string]string) Decision {
	var exact, wildcard []Input
	for _, r := range rules {
		if r.Status != permission.RuleActive || r.ResourceId != resourceId {
			continue
		}
		switch r.Action {
		case action:
			exact = append(exact, r)
		case permission.ActionAll:
			wildcard = append(wildcard, r)
		}
	}

	// The caller asking for the wildcard action matches only wildcard rules;
	// avoid double-counting them in both partitions.
	if action == permission.ActionAll {
		exact = wildcard
		wildcard = nil
	}

	hasAllow := false
	for _, partition := range [][]Input{exact, wildcard} {
		for _, r := range partition {
			if !conditionsSatisfied(r.Conditions, context) {
				continue
			}
			if r.Effect == permission.EffectDeny {
				return Deny
			}
			hasAllow = true
		}
	}

	if hasAllow {
		return Allow
	}
	return NoMatch
}

// conditionsSatisfied checks exact key/value equality of every condition
// against the context.
func conditionsSatisfied(conditions, context map[string]string) bool {
	for k, v := range conditions {
		if context[k] != v {
			return false
		}
	}
	return true
}
