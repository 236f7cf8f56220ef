package domain

const (
	// ZeroAddress is the Ethereum zero-address sentinel.
	// It appears as the `from` of minted events and as the minter of a
	// degenerate history whose mint was not observed.
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)
