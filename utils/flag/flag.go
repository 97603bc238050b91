/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment = flag.Bool("dev", true, "set to true if the current run is for development. default value is true")
	ServiceName   = flag.String("service", APIServer, "name of the service, used as the logging tag")
	ByPassAuth    = flag.Bool("no_auth", false, "skip viewer identity resolution, all requests are anonymous")
)

// Parse parses the command-line flags. It must be called from main before
// any flag values are read; calling flag.Parse from an init function breaks
// test binaries, whose testing flags are not registered until main runs.
func Parse() {
	flag.Parse()
}
