package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/simp-lee/logger"

	"github.com/simp-lee/transitdesk/internal/app"
	"github.com/simp-lee/transitdesk/internal/config"
	"github.com/simp-lee/transitdesk/internal/console"
	"github.com/simp-lee/transitdesk/internal/module/route"
	"github.com/simp-lee/transitdesk/internal/module/trip"
	"github.com/simp-lee/transitdesk/internal/module/user"
	"github.com/simp-lee/transitdesk/internal/module/vehicle"
	"github.com/simp-lee/transitdesk/internal/store"
)

const usage = `usage: adminctl [flags] login
       adminctl [flags] <entity> <command> [command flags]

entities and commands:
  routes   list [-all] [-origin] [-destination] [-active] | create | toggle -id -active | options | delete -id
  trips    list [-all] [-status] [-route] | delete -id
  vehicles list [-all] [-status] [-active] | delete -id
  users    list [-all] [-role] [-active] | set-role -id -role | set-active -id -active | delete -id

The password is read from ADMINCTL_PASSWORD when -password is empty.
`

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	email := flag.String("email", "", "sign-in email")
	password := flag.String("password", "", "sign-in password")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("ADMINCTL_PASSWORD")
	}
	if *email == "" || *password == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *email, *password, flag.Args()); err != nil {
		if errors.Is(err, console.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, email, password string, args []string) error {
	logr, err := config.SetupLogger(&cfg.Log, logger.WithConsoleWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logr.Close()

	db, err := app.OpenDocstore(ctx, cfg, logr.Logger)
	if err != nil {
		return fmt.Errorf("setup docstore: %w", err)
	}
	defer db.Close()

	userRepo := user.NewUserRepository(db)
	authSvc, tokens, err := app.NewAuthService(ctx, cfg, db, userRepo)
	if err != nil {
		return err
	}

	pageSize := cfg.Pagination.PageSize
	c := console.New(console.Stores{
		Auth:     store.NewAuthStore(authSvc, tokens, userRepo),
		Routes:   store.NewRouteStore(route.NewRouteRepository(db), pageSize),
		Trips:    store.NewTripStore(trip.NewTripRepository(db), pageSize),
		Vehicles: store.NewVehicleStore(vehicle.NewVehicleRepository(db), pageSize),
		Users:    store.NewUserStore(userRepo, pageSize),
	}, os.Stdout)

	if err := c.Login(ctx, email, password); err != nil {
		return err
	}
	if len(args) == 1 && args[0] == "login" {
		return nil
	}
	return c.Run(ctx, args)
}
