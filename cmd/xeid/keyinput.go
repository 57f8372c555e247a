package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/ssh/terminal"
)

// resolvePrivateKey returns flagValue if set, otherwise reads a private key
// from stdin without echoing it to the terminal. No key material is ever
// written to disk by this command — only held in memory for the duration of
// the process, consistent with the core spec's key-storage-at-rest Non-goal.
func resolvePrivateKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return readSecretLine("Enter private key: ")
}

func readSecretLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	if terminal.IsTerminal(int(syscall.Stdin)) {
		raw, err := terminal.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read private key: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
