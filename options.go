package marginote

// ExtractOptions holds configuration for an extraction run.
type ExtractOptions struct {
	// Reading order
	columns     int
	autoColumns bool

	// Decryption
	password string

	// Document name used in rendered output
	stem string
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		columns: 1, // single-column reading order
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}
