package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/internal/logger"
	"github.com/stackdump/xe-identity/pkg/identity"
)

func runExtend(args []string) {
	fs := flag.NewFlagSet("extend", flag.ExitOnError)
	in := fs.String("in", "-", "path to the existing identity JSON (- for stdin)")
	out := fs.String("out", "-", "output path for the extended identity JSON (- for stdout)")
	privkey := fs.String("privkey", "", "private key hex; prompted securely if omitted")
	fs.Parse(args)

	pub := readPublicIdentity(*in)

	privateKeyHex, err := resolvePrivateKey(*privkey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid extend: %v\n", err)
		os.Exit(1)
	}

	id := identity.Restore(privateKeyHex, pub)
	if err := id.AddChallenge(context.Background(), logger.NewTextLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "xeid extend: %v\n", err)
		os.Exit(1)
	}

	writePublicIdentity(*out, id.GetPublicIdentity())
}
