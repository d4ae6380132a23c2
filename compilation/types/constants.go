package types

const (
	// MetadataSuffixLength is the number of hex characters the compiler appends to runtime bytecode for the CBOR
	// metadata block that carries the source hash: the 0xa1/0xa2 map header, the key, the 32-byte hash and the 2-byte
	// length trailer, 34 bytes in total.
	MetadataSuffixLength = 68

	// MetadataHashLength is the number of hex characters at the start of the metadata suffix kept as the metadata
	// hash.
	MetadataHashLength = 64

	// LibraryPlaceholderHashLength is the number of hex characters of the keccak256 hash of a fully qualified library
	// name used inside a "__$...$__" placeholder.
	LibraryPlaceholderHashLength = 34
)
