package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/pkg/fingerprint"
)

func runFingerprint(args []string) {
	fs := flag.NewFlagSet("fingerprint", flag.ExitOnError)
	in := fs.String("in", "-", "path to the identity JSON to fingerprint (- for stdin)")
	fs.Parse(args)

	pub := readPublicIdentity(*in)

	cid, err := fingerprint.Fingerprint(pub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid fingerprint: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(cid)
}
