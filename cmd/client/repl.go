package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/bookshelf/internal/client/api"
	"github.com/atinyakov/bookshelf/internal/client/storage"
	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
)

const helpText = `Available commands:
  register                 create an account
  login                    log in
  logout                   forget the stored session
  search <query>           search the catalog
  add <n>                  shelve result n of the last search
  list                     show your shelf
  page <id> <n>            set the current page
  notes <id> <text>        replace the notes
  status <id> <status>     want-to-read | reading | completed
  remove <id>              delete a book
  help, exit`

// shell runs the interactive loop against the API.
type shell struct {
	client   *api.Client
	session  *storage.SessionStore
	searcher *api.Sequencer
	prompt   *storage.Prompter
	out      io.Writer

	lastResults []api.Volume
}

func newShell(client *api.Client, session *storage.SessionStore, prompt *storage.Prompter, out io.Writer) *shell {
	return &shell{
		client:   client,
		session:  session,
		searcher: api.NewSequencer(client.SearchCatalog),
		prompt:   prompt,
		out:      out,
	}
}

// run reads commands until exit or end of input.
func (s *shell) run(ctx context.Context) {
	if sess := s.session.Current(); sess != nil {
		fmt.Fprintf(s.out, "Logged in as %s\n", sess.User.Email)
	}
	for {
		line, err := s.prompt.Line("bookshelf> ")
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.exec(ctx, args[0], args[1:]); err != nil {
			s.report(err)
		}
	}
}

func (s *shell) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "register", "login":
		return s.authenticate(ctx, cmd == "register")
	case "logout":
		if err := s.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
	case "search":
		return s.search(ctx, strings.Join(args, " "))
	case "add":
		return s.add(ctx, args)
	case "list":
		return s.list(ctx)
	case "page":
		if len(args) != 2 {
			return usage("page <id> <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("page <id> <n>")
		}
		return s.update(ctx, args[0], models.BookPatch{CurrentPage: &n})
	case "notes":
		if len(args) < 1 {
			return usage("notes <id> <text>")
		}
		notes := strings.Join(args[1:], " ")
		return s.update(ctx, args[0], models.BookPatch{Notes: &notes})
	case "status":
		if len(args) != 2 {
			return usage("status <id> <status>")
		}
		st := models.Status(args[1])
		return s.update(ctx, args[0], models.BookPatch{Status: &st})
	case "remove":
		if len(args) != 1 {
			return usage("remove <id>")
		}
		if err := s.client.DeleteBook(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Book removed")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *shell) authenticate(ctx context.Context, register bool) error {
	creds, err := storage.PromptCredentials(s.prompt, register)
	if err != nil {
		return err
	}
	var sess *storage.Session
	if register {
		sess, err = s.client.Register(ctx, creds.Name, creds.Email, creds.Password)
	} else {
		sess, err = s.client.Login(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome, %s\n", sess.User.Name)
	return nil
}

func (s *shell) search(ctx context.Context, q string) error {
	if strings.TrimSpace(q) == "" {
		return usage("search <query>")
	}
	res, err := s.searcher.Search(ctx, q)
	if errors.Is(err, api.ErrStaleResult) {
		return nil
	}
	if err != nil {
		return err
	}

	s.lastResults = res.Items
	if len(res.Items) == 0 {
		fmt.Fprintln(s.out, "No results")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for i, v := range res.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d pages\n", i+1, v.VolumeInfo.Title, strings.Join(v.VolumeInfo.Authors, ", "), v.VolumeInfo.PageCount)
	}
	return tw.Flush()
}

func (s *shell) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("add <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.lastResults) {
		return fmt.Errorf("pick a result between 1 and %d", len(s.lastResults))
	}

	b, err := s.client.AddBook(ctx, s.lastResults[n-1].AsNewBook())
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added %q (%s)\n", b.Title, b.ID)
	return nil
}

func (s *shell) list(ctx context.Context) error {
	books, err := s.client.ListBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(s.out, "Your shelf is empty")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tSTATUS\tPROGRESS")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\n", b.ID, b.Title, b.Author, b.Status, b.CurrentPage, b.TotalPages)
	}
	return tw.Flush()
}

func (s *shell) update(ctx context.Context, id string, patch models.BookPatch) error {
	b, err := s.client.UpdateBook(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: %s, page %d/%d\n", b.Title, b.Status, b.CurrentPage, b.TotalPages)
	return nil
}

func (s *shell) report(err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		fmt.Fprintf(s.out, "Error: %v. Please log in.\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func usage(u string) error {
	return fmt.Errorf("usage: %s", u)
}
