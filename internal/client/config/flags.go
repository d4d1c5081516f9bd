package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophshop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the storefront API
//	-d string   path to the session database
//	-t int      request timeout (in seconds)
//	-p int      list page size
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c/-config) do not get in the way.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the storefront API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the session database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "list page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
