package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/pkg/token"
)

func runToken(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: xeid token <issue|parse> [flags]")
		os.Exit(2)
	}

	switch args[0] {
	case "issue":
		runTokenIssue(args[1:])
	case "parse":
		runTokenParse(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "xeid token: unknown subcommand %q\n", args[0])
		os.Exit(2)
	}
}

func runTokenIssue(args []string) {
	fs := flag.NewFlagSet("token issue", flag.ExitOnError)
	in := fs.String("in", "-", "path to the identity JSON backing the assertion (- for stdin)")
	privkey := fs.String("privkey", "", "private key hex; prompted securely if omitted")
	fs.Parse(args)

	pub := readPublicIdentity(*in)

	privateKeyHex, err := resolvePrivateKey(*privkey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid token issue: %v\n", err)
		os.Exit(1)
	}

	tok, err := token.IssueAssertion(pub.Address, pub.Timestamp, len(pub.S), privateKeyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid token issue: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

func runTokenParse(args []string) {
	fs := flag.NewFlagSet("token parse", flag.ExitOnError)
	address := fs.String("address", "", "address the token is expected to assert")
	tok := fs.String("token", "", "the token string to parse; read from stdin if omitted")
	fs.Parse(args)

	if *address == "" {
		fmt.Fprintln(os.Stderr, "xeid token parse: -address is required")
		os.Exit(2)
	}

	tokenString := *tok
	if tokenString == "" {
		data, err := readAllStdin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "xeid token parse: %v\n", err)
			os.Exit(1)
		}
		tokenString = string(data)
	}

	claims, err := token.ParseAssertion(tokenString, *address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid token parse: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("address:   %s\n", claims.Address)
	fmt.Printf("issued at: %d\n", claims.IssuedAt)
	fmt.Printf("chain len: %d\n", claims.ChainLen)
}
