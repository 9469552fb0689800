// config/redis.go
package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the shared client for OTP attempt tracking. It stays
// nil when Redis is unreachable; callers treat nil as "limiter off".
var RedisClient *redis.Client

// ConnectRedis initializes the Redis connection. The service still
// runs without Redis, just without verification attempt limits.
func ConnectRedis() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection failed, OTP attempt limiting disabled: %v", err)
		return
	}

	RedisClient = client
	log.Println("Connected to Redis")
}
