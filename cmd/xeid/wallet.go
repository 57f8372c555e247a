package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stackdump/xe-identity/pkg/wallet"
)

func runWallet(args []string) {
	fs := flag.NewFlagSet("wallet", flag.ExitOnError)
	restore := fs.String("privkey", "", "restore a wallet from a hex-encoded private key instead of generating a new one")
	fs.Parse(args)

	var w *wallet.Wallet
	var err error
	if *restore != "" {
		w, err = wallet.RestoreWalletFromPrivateKey(*restore)
	} else {
		w, err = wallet.GenerateWallet()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "xeid wallet: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("address:     %s\n", w.Address)
	fmt.Printf("public key:  %s\n", w.PublicKeyHex)
	fmt.Printf("private key: %s\n", w.PrivateKeyHex)
}
