package configuration

const (
	// DefaultFDReserve is used when the descriptor limit cannot be read.
	DefaultFDReserve = 1024

	maxFDReserve = 1 << 20
)
