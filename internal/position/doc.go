// Package position answers "where is the runabout at time T" on top of a
// board store, memoizing answers per store revision.
//
// A cached answer is only returned while the store revision it was computed
// at is still current, so writers do not have to remember to clear caches.
// ClearCaches remains available for explicit invalidation.
package position
