package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sessionaudio/internal/auth"
	"sessionaudio/internal/config"
	"sessionaudio/internal/database"
	"sessionaudio/internal/router"
	"sessionaudio/internal/scanner"

	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	unlock := flag.Bool("unlock", false, "clear all auth attempts (reset lockout) and exit")
	verifyPassword := flag.String("verify-password", "", "with -unlock: also verify this password against the configured hash")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// operator escape hatch: the lockout has no time decay, the only
	// way back in is clearing the attempt log
	if *unlock {
		runUnlock(db, cfg, *verifyPassword)
		return
	}

	// initial scan; failure is logged but does not block startup
	sc := scanner.New(db, cfg.Audio.Root)
	if result, err := sc.Scan(); err != nil {
		log.Printf("initial scan failed: %v", err)
	} else {
		log.Printf("initial scan complete: %d files total", result.TotalFiles)
	}

	// setup router
	r := router.SetupRouter(cfg, db, sc)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("shutting down")
		if err := database.Close(db); err != nil {
			log.Printf("close database: %v", err)
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s (audio root: %s)", addr, cfg.Audio.Root)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// runUnlock clears the attempt log and optionally checks a password
// against the configured hash, then exits.
func runUnlock(db *gorm.DB, cfg *config.Config, password string) {
	guard := auth.NewGuard(db)

	failed, err := guard.FailedAttempts()
	if err != nil {
		log.Fatalf("count attempts: %v", err)
	}
	if err := guard.Clear(); err != nil {
		log.Fatalf("clear attempts: %v", err)
	}
	log.Printf("cleared attempt log (%d failed attempts)", failed)

	if password != "" {
		validator := auth.NewValidator(cfg.Auth.PasswordHash)
		if validator.Validate(password) {
			log.Printf("password matches configured hash")
		} else {
			log.Printf("password does NOT match configured hash, check auth.password_hash")
		}
	}

	if err := database.Close(db); err != nil {
		log.Printf("close database: %v", err)
	}
}
