// Command migrate applies or rolls back the postgres schema.
package main

import (
	"flag"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/database"

	log "github.com/sirupsen/logrus"
)

// migrator is the pair of schema operations the command can run.
type migrator struct {
	up   func(url string) error
	down func(url string) error
}

func main() {
	down := flag.Bool("down", false, "roll back the last migration instead of applying pending ones")
	flag.Parse()

	m := migrator{up: database.Migrate, down: database.Rollback}
	if err := m.run(config.Load(), *down); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run applies pending migrations, or rolls back one with down set. Migrate
// reports the resulting schema state itself.
func (m migrator) run(cfg *config.Config, down bool) error {
	if cfg.DBDriver != config.DriverPostgres {
		return fmt.Errorf("migrations only run against postgres, DB_DRIVER is %q", cfg.DBDriver)
	}

	if down {
		if err := m.down(cfg.PostgresURL()); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Info("✅ Rolled back one migration")
		return nil
	}

	if err := m.up(cfg.PostgresURL()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
