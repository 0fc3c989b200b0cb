package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/popcornhub/internal/db"
	"github.com/erazemk/popcornhub/internal/docstore"
	"github.com/erazemk/popcornhub/internal/logging"
	"github.com/erazemk/popcornhub/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: loading .env: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("popcornhub-data", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")

	var filePath string
	fs.StringVar(&filePath, "file", "", "")
	fs.StringVar(&filePath, "f", "", "")

	var addr string
	fs.StringVar(&addr, "addr", envOr("POPCORNHUB_DATA_ADDR", ":5001"), "")
	fs.StringVar(&addr, "a", envOr("POPCORNHUB_DATA_ADDR", ":5001"), "")

	var adminUser string
	fs.StringVar(&adminUser, "user", "admin", "")
	fs.StringVar(&adminUser, "u", "admin", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: popcornhub-data [flags]

Serves the PopcornHub document over HTTP (GET/PUT /data, GET /health).

Flags:
  -d, -db <path>          SQLite database holding the document (default: popcornhub-data.sqlite3)
  -f, -file <path>        keep the document in a JSON file instead of SQLite
  -a, -addr <host:port>   listen address (default: :5001)
  -u, -user <name>        admin username seeded on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}
	if dbPath != "" && filePath != "" {
		fmt.Fprintln(os.Stderr, "error: -db and -file are mutually exclusive")
		os.Exit(1)
	}

	closeLog, err := logging.Setup(logPath, slog.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var backend docstore.Backend
	if filePath != "" {
		backend = docstore.NewFileBackend(filePath)
		slog.Info("using file backend", "path", filePath)
	} else {
		if dbPath == "" {
			dbPath = "popcornhub-data.sqlite3"
		}
		database, err := openDatabase(dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		backend = docstore.NewSQLiteBackend(database)
		slog.Info("using sqlite backend", "path", dbPath)
	}

	ctx := context.Background()
	password, err := seedAdmin(ctx, docstore.NewLocal(backend), adminUser, time.Now())
	if err != nil {
		slog.Error("failed to initialize document", "error", err)
		os.Exit(1)
	}
	if password != "" {
		printSeedResult(adminUser, password)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           docstore.NewServer(backend),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("data service started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("data service stopped")
}

func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return database, nil
}

// seedAdmin writes an empty document with an admin account when the store
// has no admin yet. It returns the generated password, or "" when nothing
// was seeded.
func seedAdmin(ctx context.Context, s docstore.Store, username string, now time.Time) (string, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	if store.HasAdmin(doc) {
		return "", nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	if _, err := store.CreateUser(doc, username, "", string(hash), true, now); err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}
	if err := s.Save(ctx, doc); err != nil {
		return "", err
	}
	return password, nil
}

func printSeedResult(username, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it is not shown again.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
