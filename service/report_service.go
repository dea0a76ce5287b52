package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/evaluation"
	"github.com/Scalingo/sclng-language-stats/formatter"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/Scalingo/sclng-language-stats/storage"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

type ReportService interface {
	// RefreshRepositories fetch the repositories and their languages from github and save them
	RefreshRepositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error)
	Repositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error)
	BuildReport(ctx context.Context, organisation string, opts model.ReportOptions) (model.Report, error)
	DefaultOptions() model.ReportOptions
}

type reportService struct {
	githubService GithubService
	store         storage.RepositoryStore
	config        config.Config
}

// githubService can be nil when reports are only built from stored snapshots
func NewReportService(config config.Config, githubService GithubService, store storage.RepositoryStore) ReportService {
	return reportService{
		githubService: githubService,
		store:         store,
		config:        config,
	}
}

func (s reportService) DefaultOptions() model.ReportOptions {
	return s.config.Evaluation.ReportOptions()
}

func (s reportService) RefreshRepositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error) {
	if s.githubService == nil {
		return nil, fmt.Errorf("%w: github client is not configured", model.ErrInvalidConfig)
	}

	filters, err := s.config.Github.Filters.Options()
	if err != nil {
		return nil, err
	}

	repos, err := s.githubService.FetchOrganisationRepositories(ctx, organisation, filters)
	if err != nil {
		return nil, err
	}

	enriched, err := s.githubService.EnrichRepositoriesLanguages(ctx, repos)
	if err != nil {
		// the stored snapshot is kept when the new one would be worse
		if enrichmentAborted(repos, enriched, err) {
			return nil, fmt.Errorf("languages could not be loaded, previous snapshot kept: %w", err)
		}

		// repositories that failed are saved without linguistic data
		log.WithError(err).Warning("languages could not be loaded for some repositories")
	}

	if err := s.store.SaveRepositories(ctx, organisation, enriched); err != nil {
		return nil, err
	}

	return enriched, nil
}

func (s reportService) Repositories(ctx context.Context, organisation string) ([]model.RepositoryMetaData, error) {
	return s.store.LoadRepositories(ctx, organisation)
}

// BuildReport run every evaluation on the stored snapshot of the organisation
func (s reportService) BuildReport(ctx context.Context, organisation string, opts model.ReportOptions) (model.Report, error) {
	if err := opts.Validate(); err != nil {
		return model.Report{}, err
	}

	repos, err := s.store.LoadRepositories(ctx, organisation)
	if err != nil {
		return model.Report{}, err
	}

	log.WithFields(log.Fields{
		"organisation": organisation,
		"repositories": len(repos),
	}).Info("building language report")

	languageDistribution := evaluation.ComputeGlobalLanguageDistribution(repos)
	repositoryCategories, categoryDistribution := evaluation.ComputeRepositoryCategoryDistribution(repos, opts.Categories, opts.Precision)

	compactCategories, err := formatter.FormatCompact(categoryDistribution, formatter.CategoryNormalizedPercentage, opts.CompactPrecision)
	if err != nil {
		return model.Report{}, err
	}

	compactCategoryShares, err := formatter.FormatCompact(categoryDistribution, formatter.CategoryPercentage, opts.CompactPrecision)
	if err != nil {
		return model.Report{}, err
	}

	compactLanguages, err := formatter.FormatCompactWithRemainder(
		languageDistribution,
		formatter.LanguagePercentage,
		opts.RemainderThreshold,
		opts.RemainderLabel,
		opts.CompactPrecision,
	)
	if err != nil {
		return model.Report{}, err
	}

	return model.Report{
		Organisation:          organisation,
		RepositoriesCount:     len(repos),
		TotalSizeKB:           CalculateRepositoriesDiskSize(repos),
		Languages:             evaluation.CollectDistinctLanguages(repos),
		LanguageDistribution:  languageDistribution,
		RepositoryCategories:  repositoryCategories,
		CategoryDistribution:  categoryDistribution,
		CompactCategories:     compactCategories,
		CompactCategoryShares: compactCategoryShares,
		CompactLanguages:      compactLanguages,
	}, nil
}

// enrichmentAborted return true when the enriched repositories must not replace the stored snapshot
// per-repository failures are tolerated as long as no rate limit was hit and one repository got languages
func enrichmentAborted(repos, enriched []model.RepositoryMetaData, err error) bool {
	if len(enriched) != len(repos) || errors.Is(err, model.ErrRateLimitReached) {
		return true
	}

	var failures *multierror.Error
	if !errors.As(err, &failures) {
		return true
	}

	for _, r := range enriched {
		if r.Languages.HasData() {
			return false
		}
	}

	return true
}
