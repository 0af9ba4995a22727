// Package main is the bookshelf terminal client.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/atinyakov/bookshelf/internal/client/api"
	"github.com/atinyakov/bookshelf/internal/client/storage"
)

var (
	version   string
	buildDate string
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "bookshelf", "session.json")
}

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL     string
		sessionPath string
		timeout     time.Duration
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionPath, "session", defaultSessionPath(), "path to the session file")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Bookshelf Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	session := storage.NewSessionStore(sessionPath)
	if err := session.Load(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.New(baseURL, session, timeout)
	newShell(client, session, storage.NewTerminalPrompter(), os.Stdout).run(ctx)
}
