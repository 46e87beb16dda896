package quota

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

type grants struct {
	plans, features, perms []string
}

func (g grants) HasPlan(s string) bool       { return slices.Contains(g.plans, s) }
func (g grants) HasFeature(s string) bool    { return slices.Contains(g.features, s) }
func (g grants) HasPermission(s string) bool { return slices.Contains(g.perms, s) }

func TestDecide(t *testing.T) {
	policy := Policy{DefaultLimit: DefaultLimit}

	tests := []struct {
		name      string
		ent       grants
		count     int64
		allowed   bool
		unlimited bool
		limit     int
	}{
		{name: "default under limit", count: 4, allowed: true, limit: 5},
		{name: "default at limit", count: 5, allowed: false, limit: 5},
		{name: "no flags never yields zero", count: 0, allowed: true, limit: 5},
		{name: "three limit", ent: grants{features: []string{Feature3Companions}}, count: 3, allowed: false, limit: 3},
		{name: "ten limit", ent: grants{features: []string{Feature10Companions}}, count: 9, allowed: true, limit: 10},
		{name: "both flags take larger", ent: grants{features: []string{Feature10Companions, Feature3Companions}}, count: 5, allowed: true, limit: 10},
		{name: "pro plan", ent: grants{plans: []string{PlanPro}}, count: 1000, allowed: true, unlimited: true},
		{name: "unlimited permission", ent: grants{perms: []string{PermissionUnlimited}}, count: 1000, allowed: true, unlimited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(policy, tt.ent, tt.count)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.unlimited, d.Unlimited)
			if !tt.unlimited {
				assert.Equal(t, tt.limit, d.Limit)
			}
		})
	}
}

func TestPolicyDefaults(t *testing.T) {
	assert.Equal(t, DefaultLimit, Limit(Policy{}, grants{}))
	assert.Equal(t, 7, Limit(Policy{DefaultLimit: 7}, grants{}))
}

func TestRemaining(t *testing.T) {
	assert.EqualValues(t, 2, Decision{Limit: 5, Count: 3}.Remaining())
	assert.EqualValues(t, 0, Decision{Limit: 5, Count: 9}.Remaining())
	assert.EqualValues(t, -1, Decision{Unlimited: true}.Remaining())
}
