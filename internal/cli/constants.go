package cli

// Default values for CLI flags and output.
const (
	// DefaultSearchLimit is the default number of search results to return.
	DefaultSearchLimit = 50
	// MaxDescriptionLength is the maximum length of a package description in tables.
	MaxDescriptionLength = 50
	// TabWidth is the padding between table columns.
	TabWidth = 2
	// defaultTerminalWidth is used when the width cannot be determined.
	defaultTerminalWidth = 80
)
