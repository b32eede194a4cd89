package stale

// Left behind after the flag type was renamed.
func (a *AtomicRenamed) Get() Renamed { return Renamed(a.v.Load()) }
