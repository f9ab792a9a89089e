package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/kinebilan/mobile-core/config"
	"github.com/kinebilan/mobile-core/internal/adapters/filestore"
	"github.com/kinebilan/mobile-core/internal/adapters/httpgw"
	"github.com/kinebilan/mobile-core/internal/adapters/redisstore"
	"github.com/kinebilan/mobile-core/internal/ports"
	"github.com/kinebilan/mobile-core/internal/service"
)

// Core bundles the wired session subsystem: the session manager, the gateway
// it talks through, and the bearer-injecting HTTP client screens should use
// for every other backend call.
type Core struct {
	Config     *config.AppConfig
	Logger     *slog.Logger
	Sessions   *service.SessionManager
	Gateway    ports.AuthGateway
	HTTPClient *http.Client

	redisClient *redis.Client
}

// NewCore wires storage, transport, gateway, and session manager from cfg.
func NewCore(cfg *config.AppConfig, logger *slog.Logger) (*Core, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	core := &Core{Config: cfg, Logger: logger}

	var kv ports.KeyValue
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		core.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = redisstore.NewWithPrefix(core.redisClient, cfg.Redis.KeyPrefix)
	case config.StorageBackendFile:
		kv = filestore.New(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	// The transport pulls the token from the session manager, which does not
	// exist yet; route through an indirection so construction stays acyclic.
	tokens := ports.TokenFunc(func() string {
		if core.Sessions == nil {
			return ""
		}
		return core.Sessions.Token()
	})
	core.HTTPClient = &http.Client{
		Transport: httpgw.NewBearerTransport(tokens, nil),
		Timeout:   cfg.API.Timeout,
	}

	core.Gateway = httpgw.NewGateway(httpgw.GatewayOptions{
		BaseURL: cfg.API.BaseURL,
		Client:  core.HTTPClient,
		Logger:  logger,
	})

	core.Sessions = service.NewSessionManager(service.SessionManagerOptions{
		Gateway: core.Gateway,
		Store:   service.NewCredentialStore(kv),
		Logger:  logger,
		IDPath:  cfg.Profile.IDPath,
	})

	return core, nil
}

// Close releases infrastructure owned by the core.
func (c *Core) Close() error {
	if c.redisClient != nil {
		return c.redisClient.Close()
	}
	return nil
}
