// Package matching provides the lexical matching primitives used by
// the progressive search pipeline: tokenisation, fuzzy string
// similarity, and contextual synonym expansion.
//
// Everything here is pure and deterministic: the same inputs always
// produce the same outputs, which the engine relies on for
// reproducible ranking.
package matching
