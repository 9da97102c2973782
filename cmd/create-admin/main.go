package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stockpulse/stockpulse-backend/internal/auth"
	"github.com/stockpulse/stockpulse-backend/pkg/config"
	"github.com/stockpulse/stockpulse-backend/pkg/db"
	"github.com/stockpulse/stockpulse-backend/pkg/logger"
)

// Seeds an admin account directly against the database. Meant for
// operators bootstrapping a fresh environment where the HTTP
// create-admin route is not mounted.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "create-admin"})

	_ = godotenv.Load()

	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "both -username and -password are required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "create-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	svc, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create admin register service", err)
		os.Exit(1)
	}

	user, err := svc.Register(ctx, auth.AdminRegisterRequest{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create admin user", err)
		os.Exit(1)
	}

	fmt.Printf("created admin user %s (%s)\n", user.Username, user.ID)
}
