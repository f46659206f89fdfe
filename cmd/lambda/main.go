// Command lambda serves the tracker API behind API Gateway.
package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gr8tracker/internal/cache"
	"gr8tracker/internal/config"
	"gr8tracker/internal/email"
	"gr8tracker/internal/handler"
	"gr8tracker/internal/models"
	"gr8tracker/internal/nhl"
	"gr8tracker/internal/tracker"
)

func main() {
	setupLogger()

	cfg := config.MustLoad()
	ctx := context.Background()

	nhlClient := nhl.NewClient(cfg.NHLBaseURL, cfg.PlayerID, cfg.TeamAbbrev, cfg.NHLTimeout)

	// The in-memory cache survives warm invocations; Redis shares it
	// across concurrent execution environments.
	var store cache.Store = cache.NewMemoryStore(cfg.CacheTTL)
	if cfg.RedisEnabled {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - falling back to in-memory cache")
		} else {
			store = redisStore
			log.Info().Msg("Redis cache connected")
		}
	}

	service := tracker.NewService(nhlClient, store, cfg.SeasonEnd())
	mailer := &lazyMailer{cfg: cfg}

	lambda.Start(handler.New(service, mailer).Handle)
}

// lazyMailer defers Parameter Store resolution until the first email
// request so stats-only deployments never need the email parameters.
type lazyMailer struct {
	cfg *config.Config

	mu     sync.Mutex
	sender *email.Sender
}

func (m *lazyMailer) Send(ctx context.Context, bundle models.StatsBundle, recipient string) error {
	sender, err := m.get(ctx)
	if err != nil {
		return err
	}
	return sender.Send(ctx, bundle, recipient)
}

func (m *lazyMailer) get(ctx context.Context) (*email.Sender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sender != nil {
		return m.sender, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	// Fail closed: there is nobody to prompt in Lambda.
	resolver := config.NewParameterStoreResolver(ssm.NewFromConfig(awsCfg), m.cfg.ParameterPath)
	emailCfg, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	sender, err := email.NewSender(ctx, emailCfg)
	if err != nil {
		return nil, err
	}
	m.sender = sender
	return sender, nil
}

// setupLogger configures JSON logging for CloudWatch.
func setupLogger() {
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
}
