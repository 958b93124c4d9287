package mips

// Config bounds a simulated run.
type Config struct {
	MaxSteps   int  // instructions executed before ErrStepLimit; 0 means unlimited
	StackBytes int  // size of the stack segment below StackTop
	HeapBytes  int  // size of the data segment plus everything sbrk may hand out
	Poison     bool // fill fresh heap and stack memory with a non-zero pattern
}

// DefaultConfig returns limits suited to small test programs.
func DefaultConfig() Config {
	return Config{
		MaxSteps:   10_000_000,
		StackBytes: 1 << 20,
		HeapBytes:  16 << 20,
	}
}

const poisonWord = 0xdeadbeef
