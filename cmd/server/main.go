package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mindweave/mindweave/internal/config"
	"github.com/mindweave/mindweave/internal/core/assessment"
	"github.com/mindweave/mindweave/internal/core/chat"
	"github.com/mindweave/mindweave/internal/core/lifecycle"
	"github.com/mindweave/mindweave/internal/core/mindmap"
	"github.com/mindweave/mindweave/internal/core/session"
	"github.com/mindweave/mindweave/internal/driver"
	"github.com/mindweave/mindweave/internal/llm"
	"github.com/mindweave/mindweave/internal/logger"
	"github.com/mindweave/mindweave/internal/server"
	"github.com/mindweave/mindweave/internal/store"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("failed to load configuration", "path", cfgPath, "error", err)
	}

	ctx := context.Background()
	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatal("failed to initialize LLM client", "provider", cfg.LLM.Provider, "error", err)
	}
	log.Info("LLM client ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	var sessionStore store.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", "addr", cfg.Redis.Addr, "error", err)
		}
		sessionStore = store.NewRedisStore(client, sessionTTL)
		log.Info("using Redis session store", "addr", cfg.Redis.Addr)
	} else {
		sessionStore = store.NewMemoryStore()
		log.Info("using in-memory session store")
	}

	var mirror *driver.Mirror
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			log.Warn("graph mirror disabled: connection failed", "uri", cfg.Memgraph.URI, "error", err)
		} else {
			defer d.Close(ctx)
			if err := d.BuildIndices(ctx); err != nil {
				log.Warn("failed to build graph indices", "error", err)
			}
			mirror = driver.NewMirror(d, log)
		}
	}

	svc := session.NewService(
		sessionStore,
		mindmap.NewGenerator(llmClient, log),
		assessment.NewEngine(llmClient, log),
		chat.NewService(llmClient, log),
		mirror,
		lifecycle.RuleFromString(cfg.Generation.UnlockRule),
		log,
	)

	srv := server.NewServer(svc, cfg, log)
	r := srv.SetupRouter()

	log.Info("starting server", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
