package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/tianbot/internal/config"
	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/embedding"
	"github.com/sandevgo/tianbot/internal/providers/llm"
	"github.com/sandevgo/tianbot/internal/providers/mcp"
	"github.com/sandevgo/tianbot/internal/providers/tools"
	"github.com/sandevgo/tianbot/internal/providers/weather"
	"github.com/sandevgo/tianbot/internal/service/agent"
	"github.com/sandevgo/tianbot/internal/service/chat"
	"github.com/sandevgo/tianbot/internal/service/command"
	"github.com/sandevgo/tianbot/internal/service/memory"
	"github.com/sandevgo/tianbot/internal/service/session"
	"github.com/sandevgo/tianbot/internal/storage/file"
	redisstore "github.com/sandevgo/tianbot/internal/storage/redis"
	"github.com/sandevgo/tianbot/internal/storage/sqlite"
	"github.com/sandevgo/tianbot/pkg/log"
	"github.com/sandevgo/tianbot/pkg/srv"
)

// toolkit is what every command needs: the tool registry and the memory
// store behind it, plus services to shut down afterwards.
type toolkit struct {
	appCfg   *config.AppConfig
	memories *memory.Store
	registry *tools.Registry
	services []srv.Service
}

func newToolkit(ctx context.Context) *toolkit {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	if err := os.MkdirAll(appCfg.GetRuntimePath(), 0755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create runtime directory")
	}

	tk := &toolkit{appCfg: appCfg}

	memRepo, err := tk.initMemoryRepo(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize memory storage")
	}
	embedder := embedding.NewOpenAICompatible(config.NewEmbeddingConfig(ctx))
	tk.memories = memory.NewStore(ctx, embedder, memRepo, memory.WithThreshold(appCfg.MemoryThreshold))

	weatherCfg := config.NewWeatherConfig(ctx)
	weatherClient, err := weather.NewClient(weather.Config{
		BaseURL:   weatherCfg.BaseURL(),
		APIKey:    weatherCfg.Key,
		Timeout:   weatherCfg.Timeout,
		RateLimit: weatherCfg.RateLimit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize weather client")
	}
	tk.services = append(tk.services, srv.NewCleanup(func() error {
		weatherClient.Close()
		return nil
	}))

	extra, err := tk.initExternalTools(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize external tools")
	}

	tk.registry, err = tools.NewDefaultRegistry(weatherClient, tk.memories, extra...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build tool registry")
	}
	return tk
}

func (tk *toolkit) initMemoryRepo(ctx context.Context) (core.MemoryRepository, error) {
	switch tk.appCfg.MemoryBackend {
	case config.MemoryBackendFile:
		return file.NewMemoryRepo(tk.appCfg.GetMemoryPath()), nil
	case config.MemoryBackendSQLite:
		db, err := sqlite.NewDB(ctx, tk.appCfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		tk.services = append(tk.services, srv.NewCleanup(db.Close))
		return sqlite.NewMemoryRepo(db), nil
	}
	return nil, fmt.Errorf("unknown memory backend: %s", tk.appCfg.MemoryBackend)
}

func (tk *toolkit) initExternalTools(ctx context.Context) ([]tools.Descriptor, error) {
	cfg, err := mcp.LoadConfig(tk.appCfg.GetMCPConfigPath())
	if err != nil {
		return nil, err
	}
	if len(cfg.MCPServers) == 0 {
		return nil, nil
	}

	bridge := mcp.NewBridge(mcp.NewPool())
	tk.services = append(tk.services, srv.NewCleanup(bridge.Close))
	return bridge.Connect(ctx, cfg), nil
}

// newChat builds the conversational side on top of the toolkit.
func (tk *toolkit) newChat(ctx context.Context) *chat.Service {
	logger := log.FromCtx(ctx)

	llmCfg := config.NewLLMConfig(ctx)
	aiProvider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	ag := agent.NewAgent(aiProvider, tk.registry, agent.Config{
		MaxSteps:              tk.appCfg.MaxSteps,
		FailureThreshold:      tk.appCfg.ToolFailureThreshold,
		ObservationTokenLimit: tk.appCfg.ObservationTokenLimit,
	})

	sessCfg := config.NewSessionConfig(ctx)
	sessRepo, err := tk.initSessionRepo(ctx, sessCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize session storage")
	}
	sessions := session.NewManager(sessRepo, sessCfg.MaxMessages)

	router := command.New(command.NewCommands(llmCfg, tk.appCfg, sessions, tk.memories))

	return chat.NewService(sessions, ag, router, tk.appCfg.DefaultCity)
}

func (tk *toolkit) initSessionRepo(ctx context.Context, cfg *config.SessionConfig) (core.SessionRepository, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory:
		store := session.NewMemoryStore(cfg.MaxSessions, cfg.IdleTTL)
		tk.services = append(tk.services, session.NewSweeper(store))
		return store, nil
	case config.SessionBackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		repo := redisstore.NewSessionRepo(client, cfg.IdleTTL)
		tk.services = append(tk.services, srv.NewCleanup(repo.Close))
		return repo, nil
	}
	return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
}

// close releases resources for commands that never start their services.
func (tk *toolkit) close(ctx context.Context) {
	for i := len(tk.services) - 1; i >= 0; i-- {
		if err := tk.services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", tk.services[i])
		}
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
