// Package core is the run coordinator: it sequences the resource
// kinds, aggregates their changed/unchanged outcomes and propagates
// the first failure.
package core
