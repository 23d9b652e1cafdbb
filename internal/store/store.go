// Package store provides game.Store implementations: an in-memory store
// for single-process deployments and tests, and a MongoDB-backed store
// for durable rooms.
package store
