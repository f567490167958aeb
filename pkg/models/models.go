package models

// ProxyRecord is one row of an input CSV file, keyed by trimmed column name.
// Schemas vary per source; only the columns named by a FieldMap are consumed.
type ProxyRecord map[string]string

// FieldMap names the columns of a source file that the checker reads.
// LocationField and ProtocolField are optional.
type FieldMap struct {
	ProxyField    string `mapstructure:"proxy_field"`
	LocationField string `mapstructure:"location_field"`
	ProtocolField string `mapstructure:"protocol_field"`
}

// Source pairs an input CSV with its output file name and field mapping.
type Source struct {
	Name     string   `mapstructure:"name"`
	Input    string   `mapstructure:"input"`
	Output   string   `mapstructure:"output"`
	FieldMap `mapstructure:",squash"`
}

// ProxyResult is the outcome of testing a single proxy. Exactly one is
// produced per input record; network failures are encoded in Status and
// Error rather than returned as errors.
type ProxyResult struct {
	Proxy        string
	Status       int
	Location     string
	RealLocation string
	Error        string
}
