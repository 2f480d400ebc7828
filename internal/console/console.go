// Package console is the command-line front end over the admin stores. Each
// invocation signs in, runs one command through the same guard the HTTP API
// uses, and prints the result as a table.
package console

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/guard"
	"github.com/simp-lee/transitdesk/internal/store"
)

// ErrUsage is returned for unknown commands and malformed flags.
var ErrUsage = errors.New("usage error")

// Stores bundles the controllers the console drives.
type Stores struct {
	Auth     *store.AuthStore
	Routes   *store.RouteStore
	Trips    *store.TripStore
	Vehicles *store.VehicleStore
	Users    *store.UserStore
}

// Console runs admin commands against Stores.
type Console struct {
	stores Stores
	out    io.Writer
}

// New creates a Console writing to out.
func New(stores Stores, out io.Writer) *Console {
	return &Console{stores: stores, out: out}
}

type command struct {
	meta guard.Meta
	run  func(ctx context.Context, args []string) error
}

func (c *Console) commands() map[string]map[string]command {
	agent := guard.Meta{RequiresAgent: true}
	admin := guard.Meta{RequiresAdmin: true}
	return map[string]map[string]command{
		"routes": {
			"list":    {agent, c.listRoutes},
			"create":  {agent, c.createRoute},
			"toggle":  {agent, c.toggleRoute},
			"options": {agent, c.routeOptions},
			"delete":  {agent, deleteWith(c, c.stores.Routes.Delete)},
		},
		"trips": {
			"list":   {agent, c.listTrips},
			"delete": {agent, deleteWith(c, c.stores.Trips.Delete)},
		},
		"vehicles": {
			"list":   {agent, c.listVehicles},
			"delete": {agent, deleteWith(c, c.stores.Vehicles.Delete)},
		},
		"users": {
			"list":       {admin, c.listUsers},
			"set-role":   {admin, c.setRole},
			"set-active": {admin, c.setActive},
			"delete":     {admin, deleteWith(c, c.stores.Users.Delete)},
		},
	}
}

// Login signs in with email and password and reloads the stored profile so
// that the role used by the guard is current.
func (c *Console) Login(ctx context.Context, email, password string) error {
	res := c.stores.Auth.LoginWithEmail(ctx, email, password)
	if !res.Success {
		return fmt.Errorf("login: %s", res.Error)
	}
	if res := c.stores.Auth.FetchUserProfile(ctx); !res.Success {
		return fmt.Errorf("load profile: %s", res.Error)
	}
	p := c.stores.Auth.Profile()
	fmt.Fprintf(c.out, "signed in as %s (%s)\n", p.Email, p.Role)
	return nil
}

// Run executes "<entity> <verb> [flags]".
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: expected <entity> <command>", ErrUsage)
	}
	verbs, ok := c.commands()[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown entity %q", ErrUsage, args[0])
	}
	cmd, ok := verbs[args[1]]
	if !ok {
		return fmt.Errorf("%w: unknown %s command %q", ErrUsage, args[0], args[1])
	}

	d := guard.Evaluate("/"+args[0], cmd.meta, c.stores.Auth.GuardState())
	if !d.Allowed() {
		slog.WarnContext(ctx, "console command denied",
			slog.String("command", args[0]+" "+args[1]), slog.String("outcome", d.Outcome()))
		if d.Redirect == guard.LoginPath {
			return domain.NewAppError(domain.CodeUnauthorized, "Sign in required", nil)
		}
		return domain.NewAppError(domain.CodeForbidden, "Permission denied", nil)
	}
	return cmd.run(ctx, args[2:])
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func requireID(fs *flag.FlagSet, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s: -id is required", ErrUsage, fs.Name())
	}
	return nil
}

// optionalBool turns "", "true" and "false" into a tri-state filter.
func optionalBool(raw string) (*bool, error) {
	switch raw {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("%w: expected true or false, got %q", ErrUsage, raw)
}

// resultError turns a failed store result into an error carrying its message
// and field errors.
func resultError[T any](res store.Result[T]) error {
	if res.Success {
		return nil
	}
	if len(res.Fields) > 0 {
		return &domain.AppError{Code: domain.CodeValidation, Message: res.Error, Fields: res.Fields}
	}
	return errors.New(res.Error)
}

func deleteWith[T any](c *Console, del func(context.Context, string) store.Result[T]) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		fs := newFlagSet("delete")
		id := fs.String("id", "", "document id")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := requireID(fs, *id); err != nil {
			return err
		}
		if err := resultError(del(ctx, *id)); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "deleted %s\n", *id)
		return nil
	}
}

// lister is the part of a list store the list commands need.
type lister interface {
	Fetch(ctx context.Context, reset bool) error
	LoadMore(ctx context.Context) error
	HasMore() bool
	Error() string
}

// load runs a reset fetch and, with all set, keeps loading pages until the
// store reports no more.
func load(ctx context.Context, l lister, all bool) error {
	if err := l.Fetch(ctx, true); err != nil {
		return errors.New(l.Error())
	}
	for all && l.HasMore() {
		if err := l.LoadMore(ctx); err != nil {
			return errors.New(l.Error())
		}
	}
	return nil
}

func (c *Console) footer(n int, more bool) {
	if more {
		fmt.Fprintf(c.out, "%d shown, more available (use -all)\n", n)
		return
	}
	fmt.Fprintf(c.out, "%d total\n", n)
}
