// Package identity resolves the caller of a request from the identity
// provider's session token and exposes their plan entitlements.
package identity

import (
	"context"
	"slices"
)

// Entitlements are the plan, feature and permission slugs granted to a user
// by the identity provider.
type Entitlements struct {
	Plans       []string `json:"plans"`
	Features    []string `json:"features"`
	Permissions []string `json:"permissions"`
}

func (e Entitlements) HasPlan(slug string) bool       { return slices.Contains(e.Plans, slug) }
func (e Entitlements) HasFeature(slug string) bool    { return slices.Contains(e.Features, slug) }
func (e Entitlements) HasPermission(slug string) bool { return slices.Contains(e.Permissions, slug) }

// Identity is the resolved caller. The zero value is an anonymous caller.
type Identity struct {
	UserID       string
	Entitlements Entitlements
}

// Authenticated reports whether a user id was resolved.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller stored in ctx, or the anonymous caller.
func FromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// UserID is shorthand for FromContext(ctx).UserID.
func UserID(ctx context.Context) string {
	return FromContext(ctx).UserID
}
