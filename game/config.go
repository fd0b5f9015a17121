package game

// Options controls a batch run.
type Options struct {
	MaxTicks         int32 // stop after this many ticks (0 = unlimited)
	StopOnExtinction bool  // stop once the population reaches zero
	ProgressEvery    int32 // log a progress line every N ticks (0 = never)
}

// DefaultOptions returns the options of an unbounded run.
func DefaultOptions() Options {
	return Options{StopOnExtinction: true}
}
