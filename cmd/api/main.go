package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "heritage_pulse/internal/adapters/http_server"
	"heritage_pulse/internal/adapters/httpx"
	"heritage_pulse/internal/adapters/nominatim"
	"heritage_pulse/internal/adapters/observability"
	"heritage_pulse/internal/adapters/openrouter"
	"heritage_pulse/internal/adapters/osrm"
	"heritage_pulse/internal/adapters/overpass"
	redisad "heritage_pulse/internal/adapters/redis"
	"heritage_pulse/internal/adapters/wikidata"
	"heritage_pulse/internal/adapters/wikipedia"
	"heritage_pulse/internal/app"
	"heritage_pulse/internal/domain"
	"heritage_pulse/internal/shared"
	mysqlrepo "heritage_pulse/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.EnsureSchema(ctx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	cancel()

	// upstream adapters
	retry := httpx.DefaultRetryPolicy()
	geocoder := nominatim.New(cfg.NominatimBase, cfg.UpstreamTimeout, retry)
	kg := wikidata.New(cfg.WikidataBase, cfg.UpstreamTimeout, retry)
	poi := overpass.New(cfg.OverpassBase, cfg.UpstreamTimeout, retry)
	narrative := wikipedia.New(cfg.WikipediaBase, cfg.UpstreamTimeout, retry)
	router := osrm.New(cfg.OSRMBase, cfg.UpstreamTimeout, retry)

	// The planner is optional: without a key the pipeline runs on the
	// deterministic optimizer alone.
	var planner domain.Planner
	if llm, err := openrouter.New(cfg.OpenRouterBase, cfg.OpenRouterKey, cfg.ChatModel, cfg.PlanModel, cfg.PlannerTimeout); err == nil {
		planner = llm
	} else {
		log.Warn().Err(err).Msg("reasoning model disabled")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := redisad.NewSessions(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	enricher := app.NewEnricher(narrative, cfg.EnrichWorkers)
	discovery := app.NewService(geocoder, kg, poi, enricher, router, planner, repo, cache, cfg.CacheTTL)
	chat := app.NewChatService(planner, sessions, cfg.SessionTTL)

	// http
	srv := server.New(cfg.RequestBudget)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Discovery: discovery, Chat: chat})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
