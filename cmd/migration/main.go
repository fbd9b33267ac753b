// Command migration manages the league database schema with the migrations
// embedded in the binary.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/riskibarqy/haxball-league/internal/infrastructure/repository/sqldb"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

const usage = `usage: migration <command> [arg]

commands:
  up             apply every pending migration
  down [n]       roll back n migrations (default 1)
  version        print the current version and dirty flag
  force <v>      mark version v as applied without running it
  goto <v>       migrate up or down to version v

environment:
  DB_DRIVER      sqlite or postgres (default sqlite)
  DB_URL         connection string, required
`

var errUsage = errors.New("invalid usage")

type command func(m *migrate.Migrate, arg string, out io.Writer) error

var commands = map[string]command{
	"up":      runUp,
	"down":    runDown,
	"version": runVersion,
	"force":   runForce,
	"goto":    runGoto,
}

func main() {
	_ = godotenv.Load()
	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL"))).Named("migration")
	defer func() { _ = logger.Sync() }()

	driver, dbURL := os.Getenv("DB_DRIVER"), os.Getenv("DB_URL")
	if err := run(os.Args[1:], driver, dbURL, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(args []string, driver, dbURL string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "migrate" {
		name = "goto"
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	arg := ""
	if len(args) > 1 {
		arg = strings.TrimSpace(args[1])
	}

	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "", "sqlite3":
		driver = sqldb.DriverSQLite
	}
	if strings.TrimSpace(dbURL) == "" {
		return fmt.Errorf("%w: DB_URL is required", errUsage)
	}

	m, err := sqldb.NewMigrator(driver, strings.TrimSpace(dbURL))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	return cmd(m, arg, out)
}

func runUp(m *migrate.Migrate, _ string, out io.Writer) error {
	return report(out, "migrations applied", m.Up())
}

func runDown(m *migrate.Migrate, arg string, out io.Writer) error {
	steps := 1
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: down steps must be a positive integer, got %q", errUsage, arg)
		}
		steps = n
	}
	return report(out, fmt.Sprintf("rolled back %d migration(s)", steps), m.Steps(-steps))
}

func runVersion(m *migrate.Migrate, _ string, out io.Writer) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		_, err = fmt.Fprintln(out, "version: none\ndirty: false")
		return err
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
	return err
}

func runForce(m *migrate.Migrate, arg string, out io.Writer) error {
	v, err := parseVersion(arg)
	if err != nil {
		return err
	}
	if err := m.Force(int(v)); err != nil {
		return fmt.Errorf("force version %d: %w", v, err)
	}
	_, err = fmt.Fprintf(out, "forced version %d\n", v)
	return err
}

func runGoto(m *migrate.Migrate, arg string, out io.Writer) error {
	v, err := parseVersion(arg)
	if err != nil {
		return err
	}
	return report(out, fmt.Sprintf("migrated to version %d", v), m.Migrate(v))
}

// parseVersion accepts the non-negative versions golang-migrate can store.
func parseVersion(raw string) (uint, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: a version argument is required", errUsage)
	}
	v, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q", errUsage, raw)
	}
	return uint(v), nil
}

// report treats ErrNoChange as success.
func report(out io.Writer, done string, err error) error {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		done = "no migration changes"
	case err != nil:
		return err
	}
	_, err = fmt.Fprintln(out, done)
	return err
}
