// Command deauport-hash prints the digest of an admin password in the form
// AUTH_PASS_SHA256 expects.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/deauport/deauport/internal/service"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	useBcrypt := flag.Bool("bcrypt", false, "emit a bcrypt hash instead of hex SHA-256")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	password, err := readPassword()
	if err != nil {
		log.Fatalf("failed to read password: %v\n", err)
	}
	if password == "" {
		log.Fatalf("empty password\n")
	}

	if !*useBcrypt {
		fmt.Println(service.DigestSHA256(password))
		return
	}
	hash, err := service.DigestBcrypt(password, *cost)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	fmt.Println(hash)
}

// readPassword prompts without echo on a terminal and reads one line from
// stdin otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "Again: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
