package main

import (
	"os"

	"github.com/bsv-blockchain/walletrecovery/cmd/walletrecovery/walletrecovery"
	"github.com/ordishs/gocore"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "walletrecovery"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	os.Exit(walletrecovery.Start(os.Args[1:], version, commit))
}
