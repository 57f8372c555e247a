package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/pkg/identity"
)

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	in := fs.String("in", "-", "path to the identity JSON to verify (- for stdin)")
	fs.Parse(args)

	pub := readPublicIdentity(*in)

	if identity.VerifyIdentity(pub) {
		fmt.Println("valid")
		return
	}
	fmt.Println("invalid")
	os.Exit(1)
}
