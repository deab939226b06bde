// Package cache provides bounded LRU memoisation for the search
// pipeline. Caches are explicit, injectable objects constructed once
// at startup and passed to the components that need them - never
// ambient global state. All caches are safe for concurrent use.
package cache
