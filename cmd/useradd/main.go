package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloudstorage/internal/config"
	"cloudstorage/internal/dbs/postgres"
	"cloudstorage/internal/models"
	userrepo "cloudstorage/internal/repositories/db/user"
	userservice "cloudstorage/internal/services/user"
)

const (
	timeout     = 10 * time.Second
	passwordEnv = "USERADD_PASSWORD"
)

type options struct {
	login    string
	password string
}

func bindFlags(fs *flag.FlagSet, opts *options) {
	fs.StringVar(&opts.login, "login", "", "login of the new user")
	fs.StringVar(&opts.password, "password", "", "password of the new user (or "+passwordEnv+")")
}

// resolvePassword must run after flag parsing.
func (o *options) resolvePassword(getenv func(string) string) {
	if o.password == "" {
		o.password = getenv(passwordEnv)
	}
}

func main() {
	var opts options

	bindFlags(flag.CommandLine, &opts)

	// MustLoad parses the command line.
	cfg := config.MustLoad()

	opts.resolvePassword(os.Getenv)
	login, password := opts.login, opts.password

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if login == "" || password == "" {
		log.Error("login and password are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	userRepo := userrepo.NewRepository(db)

	userService := userservice.New(log, userRepo, userRepo)

	id, err := userService.Register(ctx, login, password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserExists):
			log.Error("user already exists", slog.String("login", login))
		case errors.Is(err, models.ErrInvalidParams):
			log.Error("login must be 3-64 characters of [a-zA-Z0-9._@-], password 8-72 characters with a letter and a digit")
		default:
			log.Error("failed to register user", slog.String("error", err.Error()))
		}
		db.Close()
		os.Exit(1)
	}

	fmt.Println(id)
}
