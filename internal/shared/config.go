package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	NominatimBase string
	WikidataBase  string
	OverpassBase  string
	WikipediaBase string
	OSRMBase      string

	OpenRouterBase  string
	OpenRouterKey   string
	ChatModel       string
	PlanModel       string
	PlannerTimeout  time.Duration
	UpstreamTimeout time.Duration

	EnrichWorkers int
	CacheTTL      time.Duration
	SessionTTL    time.Duration
	RequestBudget time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/heritage?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		NominatimBase: env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		WikidataBase:  env("WIKIDATA_BASE_URL", "https://query.wikidata.org/sparql"),
		OverpassBase:  env("OVERPASS_BASE_URL", "https://overpass-api.de/api/interpreter"),
		WikipediaBase: env("WIKIPEDIA_BASE_URL", "https://en.wikipedia.org/w/api.php"),
		OSRMBase:      env("OSRM_BASE_URL", "https://router.project-osrm.org"),

		OpenRouterBase:  env("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterKey:   env("OPENROUTER_API_KEY", ""),
		ChatModel:       env("CHAT_MODEL", "deepseek/deepseek-chat"),
		PlanModel:       env("PLAN_MODEL", "deepseek/deepseek-r1"),
		PlannerTimeout:  time.Duration(atoi("PLANNER_TIMEOUT_SECONDS", 60)) * time.Second,
		UpstreamTimeout: time.Duration(atoi("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,

		EnrichWorkers: atoi("ENRICH_WORKERS", 6),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 3600)) * time.Second,
		RequestBudget: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 90)) * time.Second,
	}
	if c.OpenRouterKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY is empty, itinerary planning falls back to the greedy optimizer")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
