// Package services implements the driving port interfaces.
// Services contain the core business logic: query parsing, entity
// extraction, temporal resolution, the progressive fallback search
// engine, and pairwise document similarity.
//
// Services orchestrate calls to driven ports (adapters) and degrade
// gracefully when optional capabilities are absent.
package services
