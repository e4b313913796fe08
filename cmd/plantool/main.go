package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"trip-dispatch-service/internal/adapters/snapshot"
	"trip-dispatch-service/internal/adapters/solveapi"
	"trip-dispatch-service/internal/config"
	"trip-dispatch-service/internal/domain"
	"trip-dispatch-service/internal/platform/db"
	"trip-dispatch-service/internal/ports"
	"trip-dispatch-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// plantool seeds a planning session: it generates (or solves) a trip
// collection, persists it through the configured snapshot store, and
// prints the plan summary. This is the composition root wiring concrete
// adapters behind ports.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg.LogLevel)

	stringIDs := flag.String("strings", "101,102", "comma-separated String IDs to plan for")
	deliveryType := flag.String("type", "CORE", "delivery type for generated trips")
	date := flag.String("date", time.Now().Format("2006-01-02"), "delivery date (YYYY-MM-DD)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "generation seed (fixed seed = reproducible plan)")
	solve := flag.Bool("solve", false, "fetch the plan from the solve service instead of generating")
	submit := flag.Bool("submit", false, "submit the plan through the gateway after seeding")
	flag.Parse()

	dt, err := domain.ParseDeliveryType(*deliveryType)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid delivery type")
	}

	ids := splitStringIDs(*stringIDs)
	if len(ids) == 0 {
		log.Fatal().Msg("at least one String ID is required")
	}

	ctx := context.Background()

	store, cleanup, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open snapshot store")
	}
	defer cleanup()

	client, err := solveapi.NewClient(cfg.SolveAPIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("create solve client")
	}

	session := services.NewPlanningSession(store, client, log.With().Str("component", "session").Logger())

	var trips []*domain.Trip
	if *solve {
		trips, err = client.Solve(ctx, ports.SolveRequest{Date: *date, StringIDs: ids})
		if err != nil {
			log.Fatal().Err(err).Msg("solve failed")
		}
	} else {
		trips = services.GenerateTrips(services.GenerateOptions{
			StringIDs:    ids,
			DeliveryType: dt,
			Date:         *date,
			Seed:         *seed,
		})
	}

	session.SetTrips(trips)
	if err := session.SaveTrips(ctx); err != nil {
		log.Fatal().Err(err).Msg("save trips")
	}
	if err := session.SaveGenerationScope(ctx, services.GenerationScope{StringIDs: ids, DeliveryType: dt}); err != nil {
		log.Fatal().Err(err).Msg("save generation scope")
	}

	summary := services.SummarizePlan(trips)
	log.Info().
		Int("trips", summary.TotalTrips).
		Int("orders", summary.TotalOrders).
		Float64("volume", summary.TotalVolume).
		Int("avg_usage_pct", summary.AverageUsage).
		Int("over_capacity", summary.OverCapacityTrips).
		Msg("plan seeded")

	if *submit {
		if err := session.SubmitPlan(ctx); err != nil {
			log.Fatal().Err(err).Msg("submit plan")
		}
		log.Info().Msg("plan submitted")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func splitStringIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openSnapshotStore picks the snapshot backend: Redis when REDIS_ADDR is
// set, Postgres when DATABASE_URL is set, local SQLite otherwise.
func openSnapshotStore(ctx context.Context, cfg config.Config) (ports.SnapshotStore, func(), error) {
	switch {
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("open snapshot store: verify redis connection: %w", err)
		}
		return snapshot.NewRedisSnapshotStore(client, ""), func() { client.Close() }, nil

	case cfg.DatabaseURL != "":
		pg, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot store: %w", err)
		}
		if err := snapshot.InitSQLSchema(ctx, pg); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("open snapshot store: %w", err)
		}
		return snapshot.NewSQLSnapshotStore(pg), func() { pg.Close() }, nil

	default:
		lite, err := openSqlite(cfg.SnapshotDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot store: %w", err)
		}
		return snapshot.NewSqliteSnapshotStore(lite), func() { lite.Close() }, nil
	}
}

func openSqlite(path string) (*sql.DB, error) {
	lite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	if err := lite.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", path, err)
	}
	if err := snapshot.InitSchema(lite); err != nil {
		return nil, err
	}
	return lite, nil
}
