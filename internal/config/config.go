package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string

	RedisURL string

	ServerPort string

	JWTSecret string

	AccessTokenMaxAge int

	WorkerCount int

	StatsCacheTTL int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://127.0.0.1:27017"
	}

	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoDBName == "" {
		mongoDBName = "nyc_arrests"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 900
	}

	workerCount, err := strconv.Atoi(os.Getenv("WORKER_COUNT"))
	if err != nil || workerCount <= 0 {
		workerCount = 2
	}

	statsCacheTTL, err := strconv.Atoi(os.Getenv("STATS_CACHE_TTL"))
	if err != nil || statsCacheTTL <= 0 {
		statsCacheTTL = 300
	}

	return &Config{
		MongoURI:    mongoURI,
		MongoDBName: mongoDBName,

		RedisURL: os.Getenv("REDIS_URL"),

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenMaxAge: accessTokenMaxAge,

		WorkerCount: workerCount,

		StatsCacheTTL: statsCacheTTL,
	}, nil
}
