// Package main writes a self-signed server certificate and key for running
// the bookshelf server with tls_cert/tls_key in development.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/bookshelf/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	ttl := fs.Duration("ttl", 365*24*time.Hour, "certificate validity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	certPEM, keyPEM, err := certgen.SelfSigned(names, *ttl)
	if err != nil {
		return err
	}
	files, err := certgen.WriteFiles(*dir, certPEM, keyPEM)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificate: %s\nKey: %s\nStart the server with TLS_CERT=%s TLS_KEY=%s\n",
		files.Cert, files.Key, files.Cert, files.Key)
	return nil
}
