package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey            string
	JWTAccessTokenExpireMin int

	// Internal admin surface (cache administration)
	InternalAPIKey string

	// Gemini (optional AI recommendation)
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Matching / search engine
	DefaultLanguage   string
	MaxDistanceKm     float64
	MatchResultLimit  int
	SearchResultLimit int
	CandidateFetchCap int

	// Cache TTL tiers
	CacheTTLShort   time.Duration
	CacheTTLDefault time.Duration
	CacheTTLLong    time.Duration

	// Scoring weights
	Scoring ScoringConfig

	// SigNoz
	SigNozEndpoint string
}

// ScoringConfig holds the weight constants of the match scorer. The
// defaults are the documented policy; every value is env-overridable.
type ScoringConfig struct {
	Base             float64
	KeywordPerMatch  float64
	KeywordCap       float64
	SkillCap         float64
	BudgetTightBonus float64
	BudgetNearBonus  float64
	BudgetFarPenalty float64
	UrgencyBonus     float64
	UrgencyPenalty   float64
	RemotePenalty    float64
	RatingFactor     float64
	RatingCap        float64
	RatingCountCap   float64
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL 우선, 없으면 개별 환경변수로 구성
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:            getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin: getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15),

		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),

		// Gemini
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		AITimeout:    time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 5)) * time.Second,

		// Engine defaults
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "ko"),
		MaxDistanceKm:     getEnvAsFloat("MATCH_MAX_DISTANCE_KM", 50),
		MatchResultLimit:  getEnvAsInt("MATCH_RESULT_LIMIT", 10),
		SearchResultLimit: getEnvAsInt("SEARCH_RESULT_LIMIT", 20),
		CandidateFetchCap: getEnvAsInt("CANDIDATE_FETCH_CAP", 500),

		// Cache TTL tiers (minutes)
		CacheTTLShort:   time.Duration(getEnvAsInt("CACHE_TTL_SHORT_MINUTES", 5)) * time.Minute,
		CacheTTLDefault: time.Duration(getEnvAsInt("CACHE_TTL_DEFAULT_MINUTES", 15)) * time.Minute,
		CacheTTLLong:    time.Duration(getEnvAsInt("CACHE_TTL_LONG_MINUTES", 60)) * time.Minute,

		Scoring: ScoringConfig{
			Base:             getEnvAsFloat("SCORE_BASE", 50),
			KeywordPerMatch:  getEnvAsFloat("SCORE_KEYWORD_PER_MATCH", 5),
			KeywordCap:       getEnvAsFloat("SCORE_KEYWORD_CAP", 25),
			SkillCap:         getEnvAsFloat("SCORE_SKILL_CAP", 25),
			BudgetTightBonus: getEnvAsFloat("SCORE_BUDGET_TIGHT_BONUS", 10),
			BudgetNearBonus:  getEnvAsFloat("SCORE_BUDGET_NEAR_BONUS", 5),
			BudgetFarPenalty: getEnvAsFloat("SCORE_BUDGET_FAR_PENALTY", 10),
			UrgencyBonus:     getEnvAsFloat("SCORE_URGENCY_BONUS", 5),
			UrgencyPenalty:   getEnvAsFloat("SCORE_URGENCY_PENALTY", 5),
			RemotePenalty:    getEnvAsFloat("SCORE_REMOTE_PENALTY", 20),
			RatingFactor:     getEnvAsFloat("SCORE_RATING_FACTOR", 2),
			RatingCap:        getEnvAsFloat("SCORE_RATING_CAP", 10),
			RatingCountCap:   getEnvAsFloat("SCORE_RATING_COUNT_CAP", 5),
		},

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	// 1. DATABASE_URL이 있으면 그대로 사용
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	// 2. 개별 환경변수로 구성 (k8s secret 키 이름과 일치)
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "makerlink")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
