package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/grpansare/task-management/internal/api"
	"github.com/grpansare/task-management/internal/collection"
	"github.com/grpansare/task-management/internal/config"
	dom "github.com/grpansare/task-management/internal/domain"
	"github.com/grpansare/task-management/internal/session"
)

var verbose bool

// env holds everything a subcommand needs.
type env struct {
	log      *zap.Logger
	sessions *session.Store
	tasks    *collection.Collection
}

func main() {
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	command := flag.Arg(0)
	args := flag.Args()[1:]

	if err := run(command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, api.ErrAuth) {
			fmt.Fprintln(os.Stderr, "Run `taskman login` to authenticate.")
		}
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}
	log.Debug("client configured", zap.String("base_url", cfg.BaseURL))

	client := api.NewClient(cfg.BaseURL, cfg.Timeout.Duration())
	sessions := session.NewStore(client)
	if saved, err := loadSavedSession(); err == nil {
		sessions.Restore(saved)
	}

	e := &env{
		log:      log,
		sessions: sessions,
		tasks:    collection.New(client, sessions),
	}

	ctx := context.Background()
	switch command {
	case "register":
		return runRegister(ctx, e, args)
	case "login":
		return runLogin(ctx, e, args)
	case "logout":
		return runLogout(e)
	case "whoami":
		return runWhoami(e)
	case "list":
		return runList(ctx, e, args)
	case "add":
		return runAdd(ctx, e, args)
	case "edit":
		return runEdit(ctx, e, args)
	case "done":
		return runSetCompleted(ctx, e, args, true)
	case "undone":
		return runSetCompleted(ctx, e, args, false)
	case "rm":
		return runRemove(ctx, e, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: taskman [-verbose] <command> [args]

Commands:
  register  -username NAME -email ADDR -password PASS
  login     -email ADDR -password PASS
  logout
  whoami
  list      [-filter all|pending|completed|overdue]
  add       -title T -desc D [-priority LOW|MEDIUM|HIGH] [-due YYYY-MM-DD]
  edit      <id> [-title T] [-desc D] [-priority P] [-due YYYY-MM-DD|none]
  done      <id>
  undone    <id>
  rm        <id>`)
}

func runRegister(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 characters)")
	fs.Parse(args)
	if *username == "" || *email == "" || *password == "" {
		return errors.New("register needs -username, -email and -password")
	}
	if err := e.sessions.Register(ctx, *username, *email, *password); err != nil {
		return err
	}
	fmt.Println("Account created. Run `taskman login` to sign in.")
	return nil
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("login needs -email and -password")
	}
	sess, err := e.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := saveSession(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Logged in as %s <%s>\n", sess.Username, sess.Email)
	return nil
}

func runLogout(e *env) error {
	e.sessions.Logout()
	e.tasks.Clear()
	if err := clearSavedSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(e *env) error {
	sess, err := e.sessions.Current()
	if err != nil {
		return fmt.Errorf("%w: not logged in", api.ErrAuth)
	}
	fmt.Printf("%s <%s> (user %d)\n", sess.Username, sess.Email, sess.UserID)
	return nil
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filterArg := fs.String("filter", "all", "all, pending, completed or overdue")
	fs.Parse(args)
	filter, err := dom.ParseFilter(*filterArg)
	if err != nil {
		return err
	}
	if err := e.tasks.Load(ctx); err != nil {
		return err
	}
	renderTasks(os.Stdout, e.tasks.FilteredView(filter), e.tasks.Counts())
	return nil
}

func runAdd(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "task title")
	desc := fs.String("desc", "", "task description")
	priority := fs.String("priority", "", "LOW, MEDIUM or HIGH (default MEDIUM)")
	due := fs.String("due", "", "due date YYYY-MM-DD")
	fs.Parse(args)

	candidate := dom.Task{
		Title:       *title,
		Description: *desc,
		Priority:    dom.Priority(strings.ToUpper(*priority)),
	}
	if *due != "" {
		d, err := dom.ParseDate(*due)
		if err != nil {
			return err
		}
		candidate.DueDate = &d
	}
	created, err := e.tasks.Create(ctx, candidate)
	if err != nil {
		return err
	}
	fmt.Printf("Created task %d: %s\n", created.ID, created.Title)
	return nil
}

func runEdit(ctx context.Context, e *env, args []string) error {
	id, rest, err := taskIDArg(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	priority := fs.String("priority", "", "new priority")
	due := fs.String("due", "", `new due date YYYY-MM-DD, or "none" to clear`)
	fs.Parse(rest)

	if err := e.tasks.Load(ctx); err != nil {
		return err
	}
	current, ok := findTask(e.tasks.FilteredView(dom.FilterAll), id)
	if !ok {
		return collection.ErrTaskNotFound
	}

	fields := collection.Fields{
		Title:       current.Title,
		Description: current.Description,
		Priority:    current.Priority,
		DueDate:     current.DueDate,
	}
	if *title != "" {
		fields.Title = *title
	}
	if *desc != "" {
		fields.Description = *desc
	}
	if *priority != "" {
		fields.Priority = dom.Priority(strings.ToUpper(*priority))
	}
	switch {
	case *due == "none":
		fields.DueDate = nil
	case *due != "":
		d, err := dom.ParseDate(*due)
		if err != nil {
			return err
		}
		fields.DueDate = &d
	}

	updated, err := e.tasks.Update(ctx, id, fields)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %d: %s\n", updated.ID, updated.Title)
	return nil
}

func runSetCompleted(ctx context.Context, e *env, args []string, completed bool) error {
	id, _, err := taskIDArg(args)
	if err != nil {
		return err
	}
	if err := e.tasks.Load(ctx); err != nil {
		return err
	}
	if err := e.tasks.SetCompleted(ctx, id, completed); err != nil {
		return err
	}
	if completed {
		fmt.Printf("Task %d completed.\n", id)
	} else {
		fmt.Printf("Task %d reopened.\n", id)
	}
	return nil
}

func runRemove(ctx context.Context, e *env, args []string) error {
	id, _, err := taskIDArg(args)
	if err != nil {
		return err
	}
	if err := e.tasks.Load(ctx); err != nil {
		return err
	}
	err = e.tasks.Remove(ctx, id, func(t dom.Task) bool {
		fmt.Printf("Delete %q? You won't be able to revert this. [y/N]: ", t.Title)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})
	if errors.Is(err, collection.ErrNotConfirmed) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Task %d deleted.\n", id)
	return nil
}

func taskIDArg(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, errors.New("missing task id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, args[1:], nil
}

func findTask(list []dom.Task, id int64) (dom.Task, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return dom.Task{}, false
}
