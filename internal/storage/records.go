// Package storage persists the client's keyed records (the meal plan and the
// shopping basket) through a pluggable Records backend.
package storage

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned by Records.Get when no record exists for a key.
var ErrRecordNotFound = errors.New("record not found")

// Record keys. Each record is owned by exactly one store.
const (
	MealPlanKey = "mealPlan"
	BasketKey   = "shoppingBasket"
)

// Records is a keyed blob store. Implementations must treat Delete of a
// missing key as success.
type Records interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// namespaced prefixes every key so several device profiles can share one backend.
type namespaced struct {
	prefix string
	next   Records
}

// WithNamespace returns a Records that stores every key under ns.
func WithNamespace(ns string, r Records) Records {
	if ns == "" {
		return r
	}
	return &namespaced{prefix: ns + ":", next: r}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.next.Get(ctx, n.prefix+key)
}

func (n *namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.next.Put(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.next.Delete(ctx, n.prefix+key)
}
