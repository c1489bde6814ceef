// Package app initializes every component of the tracker.
// app.go is the assembly point: DB pool, migrations, repositories,
// services, handlers, router and scheduler, in dependency order.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/auth"
	"pipstracker/internal/common"
	"pipstracker/internal/config"
	"pipstracker/internal/db/postgres"
	"pipstracker/internal/features/accounts"
	"pipstracker/internal/features/badges"
	"pipstracker/internal/features/reconcile"
	"pipstracker/internal/features/results"
	"pipstracker/internal/httpd"
	"pipstracker/internal/jobs"
)

// App holds the assembled components.
type App struct {
	Router    *gin.Engine
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New creates and wires the application.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Database ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// === 2. Reference time zone ===
	loc := common.LoadZone(cfg.AppTimezone)

	// === 3. Repositories ===
	usersRepo := accounts.NewRepository(pool)
	resultsRepo := results.NewRepository(pool)
	badgesRepo := badges.NewRepository(pool)

	// === 4. Services ===
	accountsService := accounts.NewService(usersRepo, cfg)
	resultsService := results.NewService(resultsRepo, loc)
	evaluator := badges.NewEvaluator(badgesRepo, resultsRepo, usersRepo, loc)
	reconciler := reconcile.NewService(pool, resultsRepo, usersRepo, loc)

	// === 5. Handlers ===
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	accountsHandler := accounts.NewHandler(accountsService, tokens)
	resultsHandler := results.NewHandler(resultsService, evaluator, loc)
	badgesHandler := badges.NewHandler(badgesRepo)

	// === 6. Router ===
	router := httpd.NewRouter(cfg, tokens, reconciler, accountsHandler, resultsHandler, badgesHandler)

	// === 7. Scheduler ===
	scheduler := jobs.NewScheduler(reconciler, loc)

	return &App{
		Router:    router,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// runMigrations applies all SQL migrations in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Results},
		{3, migration003Badges},
		{4, migration004UserBadges},
		{5, migration005LoginAttempts},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		log.Infof("Migration %d applied", m.version)
	}

	return nil
}

// SQL migrations are embedded so a fresh deploy only needs the binary.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    username VARCHAR(80) UNIQUE NOT NULL,
    password_hash VARCHAR(200) NOT NULL,
    current_streak INTEGER NOT NULL DEFAULT 0,
    last_played DATE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

var migration002Results = `
CREATE TABLE IF NOT EXISTS results (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    difficulty VARCHAR(20) NOT NULL,
    day DATE NOT NULL,
    minutes INTEGER NOT NULL,
    seconds INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, difficulty, day)
);
CREATE INDEX IF NOT EXISTS idx_results_day_difficulty ON results(day, difficulty);
CREATE INDEX IF NOT EXISTS idx_results_user_day ON results(user_id, day);
`

var migration003Badges = `
CREATE TABLE IF NOT EXISTS badges (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(120) UNIQUE NOT NULL,
    image VARCHAR(255) NOT NULL,
    description VARCHAR(255) NOT NULL,
    category INTEGER NOT NULL
);
INSERT INTO badges (name, image, description, category) VALUES
    ('Racha corta', 'racha_facil', 'Resuelve todos los Pips 5 días seguidos.', 1),
    ('Racha media', 'racha_media', 'Resuelve todos los Pips 10 días seguidos.', 2),
    ('Racha larga', 'racha_dificil', 'Resuelve todos los Pips 30 días seguidos.', 3),
    ('Racha extrema', 'racha_extrema', 'Resuelve todos los Pips 50 días seguidos.', 4),
    ('Manos ágiles', 'fuego_facil', 'Completa el Pips easy en menos de 15 segundos.', 1),
    ('Manos rápidas', 'fuego_medio', 'Completa el Pips medium en menos de 45 segundos.', 2),
    ('Manos turbo', 'fuego_dificil', 'Completa el Pips hard en menos de 1 minuto.', 3),
    ('Speedrun', 'fuego_extremo', 'Resuelve los Pips en menos de 50 segundos cada uno, en un mismo día.', 4),
    ('Prime', 'racha_tiempo_extrema', 'Haz el Pips hard en menos de 1 minuto, por 5 días seguidos.', 4),
    ('Precoz', 'medianoche_media', 'Completa todos los Pips en los primeros 5 minutos del día.', 2)
ON CONFLICT (name) DO NOTHING;
`

var migration004UserBadges = `
CREATE TABLE IF NOT EXISTS user_badges (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    badge_id BIGINT NOT NULL REFERENCES badges(id),
    awarded_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_id, badge_id)
);
`

var migration005LoginAttempts = `
CREATE TABLE IF NOT EXISTS login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    success BOOLEAN NOT NULL DEFAULT FALSE,
    attempted_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_login_attempts_user_time ON login_attempts(user_id, attempted_at DESC);
`
