package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/logger"
	"github.com/Scalingo/sclng-language-stats/service"
	"github.com/Scalingo/sclng-language-stats/storage"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// loadConfig load the configuration, apply the command line overrides and configure the logger
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}

	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}

	if organisation != "" {
		cfg.Github.Organisation = organisation
	}

	logger.Setup(*cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newGithubService setup the github client and a local rate limiter synced with the github rate limits
func newGithubService(ctx context.Context, cfg config.Config) (service.GithubService, error) {
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	log.Debug("loading current rate limit from github")
	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load current github rate limits: %w", err)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	// consume the tokens already used elsewhere so the local limiter match github
	rateLimiter := rate.NewLimiter(rate.Every(time.Hour), rateLimits.Core.Limit)

	if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
		return nil, fmt.Errorf("unable to configure the github rate limiter")
	}

	return service.NewGithubService(cfg, githubClient, rateLimiter)
}

// newReportService open the configured store, the github service is only created when withGithub is set
// the returned store must be closed by the caller
func newReportService(ctx context.Context, cfg config.Config, withGithub bool) (service.ReportService, storage.RepositoryStore, error) {
	store, err := storage.NewRepositoryStore(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open repository store: %w", err)
	}

	var githubService service.GithubService

	if withGithub {
		githubService, err = newGithubService(ctx, cfg)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	return service.NewReportService(cfg, githubService, store), store, nil
}
