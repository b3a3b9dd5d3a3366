package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	activitymod "github.com/example/taskboard/modules/activity"
	apimod "github.com/example/taskboard/modules/api"
	cachemod "github.com/example/taskboard/modules/cache"
	taskmod "github.com/example/taskboard/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	httpPort := getEnvInt("HTTP_PORT", 3000)
	dbPath := getEnv("DB_PATH", "./taskboard.db")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "taskboard:")
	activityMax := getEnvInt("ACTIVITY_MAX", 100)

	log.Println("=== Taskboard ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Database: %s", dbPath)
	log.Printf("Redis: %s", redisAddr)
	log.Printf("Cache TTL: %s (prefix: %s)", cacheTTL, cachePrefix)

	cacheModule := cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	activityModule := activitymod.NewModule(activityMax)
	taskModule := taskmod.NewModule(dbPath)
	apiModule := apimod.NewModule(httpPort)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(cacheModule)
	app.Register(activityModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// Wire the cache and activity feed after start (the cache client
	// only exists once its module initialized).
	taskModule.SetCache(cacheModule.GetCache())
	apiModule.SetCache(cacheModule.GetCache())
	apiModule.SetActivityModule(activityModule)

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", httpPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health                       - Health check")
	log.Println("  GET    /api/v1/tasks                 - List tasks (cached)")
	log.Println("  POST   /api/v1/tasks                 - Create a task")
	log.Println("  GET    /api/v1/tasks/:id             - Get a task (cached)")
	log.Println("  PUT    /api/v1/tasks/:id             - Update a task")
	log.Println("  PATCH  /api/v1/tasks/:id/status      - Update task status")
	log.Println("  DELETE /api/v1/tasks/:id             - Delete a task")
	log.Println("  GET    /api/v1/categories            - Board category counts")
	log.Println("  GET    /api/v1/activity              - Recent activity feed")
	log.Println("  GET    /api/v1/streaming             - Mock streaming data")
	log.Println("  GET    /api/v1/cache/stats           - Cache statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
