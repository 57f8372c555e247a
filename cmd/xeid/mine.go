package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/internal/logger"
	"github.com/stackdump/xe-identity/pkg/identity"
)

func runMine(args []string) {
	fs := flag.NewFlagSet("mine", flag.ExitOnError)
	challenges := fs.Uint("n", identity.DefaultChallenges, "number of challenge links to mine")
	out := fs.String("out", "-", "output path for the resulting identity JSON (- for stdout)")
	jsonLog := fs.Bool("json-log", false, "emit mining progress as JSON lines on stderr")
	fs.Parse(args)

	var log logger.Logger
	if *jsonLog {
		log = logger.NewJSONLLogger(os.Stderr)
	} else {
		log = logger.NewTextLogger()
	}

	id, err := identity.GenerateIdentity(context.Background(), *challenges, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid mine: %v\n", err)
		os.Exit(1)
	}

	writePublicIdentity(*out, id.GetPublicIdentity())
	fmt.Fprintf(os.Stderr, "private key (back this up, it is never written to disk by xeid): %s\n", id.GetPrivateKey())
}

func writePublicIdentity(path string, pub identity.PublicIdentity) {
	data, err := json.MarshalIndent(pub, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid: encode identity: %v\n", err)
		os.Exit(1)
	}
	if path == "-" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "xeid: write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "wrote identity to %s\n", path)
}

func readPublicIdentity(path string) identity.PublicIdentity {
	var data []byte
	var err error
	if path == "-" {
		fmt.Fprintln(os.Stderr, "xeid: reading identity JSON from stdin")
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid: read %s: %v\n", path, err)
		os.Exit(1)
	}
	var pub identity.PublicIdentity
	if err := json.Unmarshal(data, &pub); err != nil {
		fmt.Fprintf(os.Stderr, "xeid: decode identity JSON: %v\n", err)
		os.Exit(1)
	}
	return pub
}
