package test_utils

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/fintrack/internal/config"
	"github.com/klokku/fintrack/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	testDbName = "fintrack"
	testDbUser = "test_fintrack"
	testDbPass = "test_fintrack"
	testSchema = "fintrack"
)

var ErrNoContainerRuntime = errors.New("container runtime not available")

// runRecovered turns a panic raised by the container runtime client, e.g. when no Docker
// host can be found, into ErrNoContainerRuntime.
func runRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNoContainerRuntime, r)
		}
	}()
	return fn()
}

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %v", err)
	}

	var pgContainer *postgres.PostgresContainer
	err = runRecovered(func() error {
		var err error
		pgContainer, err = postgres.Run(
			ctx, "postgres:18.1-alpine",
			postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
			postgres.WithDatabase(testDbName),
			postgres.WithUsername(testDbUser),
			postgres.WithPassword(testDbPass),
			postgres.BasicWaitStrategies(),
		)
		return err
	})
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return nil, err
	}
	return pgContainer, nil
}

// TestWithDB starts a Postgres container holding the backend's transactions schema and
// returns a pool connected to it. The cleanup func closes the pool and stops the container.
func TestWithDB() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			log.Warnf("failed to terminate postgres container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:     host,
		Port:     port.Int(),
		User:     testDbUser,
		Pass:     testDbPass,
		Name:     testDbName,
		Schema:   testSchema,
		SSLMode:  "disable",
		MaxConns: 4,
	}
	if err := applySchema(cfg); err != nil {
		terminate()
		return nil, func() {}, fmt.Errorf("failed to apply schema: %w", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	return pool, func() {
		pool.Close()
		terminate()
	}, nil
}

// applySchema creates the backend tables from dev/schema with golang-migrate.
func applySchema(cfg config.Database) error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return err
	}
	dbUrl := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s",
		cfg.User, url.QueryEscape(cfg.Pass), cfg.Host, cfg.Port, cfg.Name, cfg.Schema)

	m, err := migrate.New("file://"+filepath.Join(projectRoot, "dev", "schema"), dbUrl)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
