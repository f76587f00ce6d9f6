package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")
	flags.Bool("pack-enabled", false, "Enable source packing and indexing")
	flags.StringSlice("pack-roots", nil, "Source root directories to pack (comma-separated)")
	flags.String("pack-base-dir", "", "Base directory for pack storage and indexes")
	flags.Int64("pack-max-file-size", 0, "Maximum source file size in bytes")
	flags.Int("pack-max-results", 0, "Maximum number of search results")
	flags.Int("pack-workers", 0, "Number of concurrent pack workers")
	flags.Duration("pack-timeout", 0, "Timeout for packing a single root")
}
