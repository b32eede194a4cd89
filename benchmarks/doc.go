// Package benchmarks compares generated atomic flag sets with a flag set
// guarded by a mutex.
//
//	go test -bench . ./benchmarks
package benchmarks
