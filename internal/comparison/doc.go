// Package comparison computes the people two titles have in common.
//
// Shared cast is the intersection of both cast lists keyed by person id,
// ordered by the better of the two billing positions. Shared crew is the
// intersection of the crew lists minus anyone already in shared cast, ordered
// by department (Directing, Writing, Production, Sound, Camera, then the
// rest) and name. Person id breaks remaining ties so output is deterministic.
package comparison
