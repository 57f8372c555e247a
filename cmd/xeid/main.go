// Command xeid mints and verifies XE proof-of-work identities: mine a
// chain of memory-hard challenges over a secp256k1 wallet, extend it,
// verify it, fingerprint it, or wrap a verified chain in a bearer
// assertion.
package main

import (
	"fmt"
	"os"
)

var commands = map[string]func([]string){
	"wallet":      runWallet,
	"mine":        runMine,
	"extend":      runExtend,
	"verify":      runVerify,
	"fingerprint": runFingerprint,
	"token":       runToken,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "xeid: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	cmd(os.Args[2:])
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: xeid <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  wallet       generate a new wallet")
	fmt.Fprintln(os.Stderr, "  mine         mine a fresh identity chain")
	fmt.Fprintln(os.Stderr, "  extend       append one challenge to an existing identity")
	fmt.Fprintln(os.Stderr, "  verify       verify an identity against its claimed address")
	fmt.Fprintln(os.Stderr, "  fingerprint  print the content-addressed fingerprint of an identity")
	fmt.Fprintln(os.Stderr, "  token        issue or parse a bearer assertion for a verified identity")
}
