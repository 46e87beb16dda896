// Package quota decides whether a user may create another companion.
package quota

// Entitlement slugs that affect the companion limit.
const (
	PermissionUnlimited = "org:feature:unlimited_companions"
	PlanPro             = "pro"
	Feature3Companions  = "3_companion_limit"
	Feature10Companions = "10_companion_limit"
)

// DefaultLimit applies when no plan, feature or permission grants another.
const DefaultLimit = 5

// Entitlements answers plan, feature and permission queries for a caller.
type Entitlements interface {
	HasPlan(slug string) bool
	HasFeature(slug string) bool
	HasPermission(slug string) bool
}

// Policy holds the configurable part of the decision.
type Policy struct {
	DefaultLimit int
}

// Decision is the outcome of Decide. Limit is meaningless when Unlimited.
type Decision struct {
	Allowed   bool
	Unlimited bool
	Limit     int
	Count     int64
}

// Remaining returns how many more companions may be created, or -1 when
// unlimited.
func (d Decision) Remaining() int64 {
	if d.Unlimited {
		return -1
	}
	if left := int64(d.Limit) - d.Count; left > 0 {
		return left
	}
	return 0
}

// Unlimited reports whether ent bypasses the count entirely.
func Unlimited(ent Entitlements) bool {
	return ent.HasPermission(PermissionUnlimited) || ent.HasPlan(PlanPro)
}

// Limit returns the companion limit granted by ent. When several feature
// flags are present the largest wins.
func Limit(p Policy, ent Entitlements) int {
	limit := p.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ent.HasFeature(Feature3Companions) {
		limit = 3
	}
	if ent.HasFeature(Feature10Companions) {
		limit = max(limit, 10)
	}
	return limit
}

// Decide reports whether a caller with ent who already owns count
// companions may create another.
func Decide(p Policy, ent Entitlements, count int64) Decision {
	if Unlimited(ent) {
		return Decision{Allowed: true, Unlimited: true, Count: count}
	}
	limit := Limit(p, ent)
	return Decision{
		Allowed: count < int64(limit),
		Limit:   limit,
		Count:   count,
	}
}
