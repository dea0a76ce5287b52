package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const repositoriesPerPage = 100

type GithubService interface {
	FetchOrganisationRepositories(ctx context.Context, organisation string, filters model.RepositoryFilterOptions) ([]model.RepositoryMetaData, error)
	EnrichRepositoriesLanguages(ctx context.Context, repos []model.RepositoryMetaData) ([]model.RepositoryMetaData, error)
	FetchLanguagesForSingleRepository(ctx context.Context, r model.RepositoryMetaData, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	languagesCache    *lru.Cache[string, model.LinguisticData]
	config            config.Config
}

// the listing costs one request per page of 100 repositories
// ListLanguages costs one request per repository, which is what exhaust the rate limit
// 60 calls per hour for non-authenticated and 5000 calls for authenticated clients
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) (GithubService, error) {
	cache, err := lru.New[string, model.LinguisticData](config.Tasks.LanguageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create languages cache: %w", err)
	}

	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		languagesCache:    cache,
		config:            config,
	}, nil
}

// FetchOrganisationRepositories list all repositories of the organisation, page by page
// repositories with missing information are skipped, the others are kept if they match the filters
func (s githubService) FetchOrganisationRepositories(ctx context.Context, organisation string, filters model.RepositoryFilterOptions) ([]model.RepositoryMetaData, error) {
	log.WithFields(log.Fields{
		"organisation": organisation,
		"forks":        filters.Forks.String(),
		"archived":     filters.Archived.String(),
		"disabled":     filters.Disabled.String(),
		"template":     filters.Template.String(),
	}).Info("fetch repositories of organisation from github")

	opts := &github.RepositoryListByOrgOptions{
		Type: "all",
		Sort: "full_name",
		ListOptions: github.ListOptions{
			PerPage: repositoriesPerPage,
		},
	}

	repositories := make([]model.RepositoryMetaData, 0)
	found := 0

	for {
		if !s.githubRateLimiter.Allow() {
			log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
			return []model.RepositoryMetaData{}, model.ErrRateLimitReached
		}

		page, response, err := s.githubClient.Repositories.ListByOrg(ctx, organisation, opts)
		if err != nil {
			return []model.RepositoryMetaData{}, s.HandleRequestErrors(err)
		}

		for _, r := range page {
			repository, valid := toRepositoryMetaData(r)

			if !valid {
				log.WithField("repositoryID", r.GetID()).Debug("repository found with invalid information. skipped")
				continue
			}

			found++

			if !filters.Match(repository) {
				log.WithField("repository", repository.Name).Debug("repository excluded by filters")
				continue
			}

			repositories = append(repositories, repository)
		}

		if response == nil || response.NextPage == 0 {
			break
		}

		opts.Page = response.NextPage
	}

	log.WithFields(log.Fields{
		"found":    found,
		"filtered": len(repositories),
	}).Info("repositories fetched from github")

	return repositories, nil
}

// EnrichRepositoriesLanguages return a copy of repos with the languages of each repository
// requests are parallelized with a sized wait group and answered from the cache when the repository was not pushed since
// a repository whose languages cannot be loaded stays without linguistic data and its error is part of the returned error
func (s githubService) EnrichRepositoriesLanguages(ctx context.Context, repos []model.RepositoryMetaData) ([]model.RepositoryMetaData, error) {
	enriched := make([]model.RepositoryMetaData, len(repos))
	copy(enriched, repos)

	toFetch := make([]int, 0, len(enriched))

	for i, r := range enriched {
		// without main language github has no language to return, save the request
		if r.PrimaryLanguage == "" {
			log.WithField("repositoryID", r.ID).Debug("repository without most used language. skipped from loading languages list")
			enriched[i].Languages = model.LinguisticData{}
			continue
		}

		if languages, found := s.languagesCache.Get(languagesCacheKey(r)); found {
			enriched[i].Languages = languages.Clone()
			continue
		}

		toFetch = append(toFetch, i)
	}

	// consume tokens for all requests at once
	// this avoid loading the languages for only a part of the repositories
	if !s.githubRateLimiter.AllowN(time.Now(), len(toFetch)) {
		log.WithField("repositoriesToLoad", len(toFetch)).Warning("not enought requests in rate limiter to load languages for all repositories")
		return []model.RepositoryMetaData{}, model.ErrRateLimitReached
	}

	log.WithFields(log.Fields{
		"numberOfRepositories": len(toFetch),
		"fromCache":            len(enriched) - len(toFetch),
	}).Debug("will load languages from repositories")

	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)
	results := make(chan model.RepositoryLanguages, len(toFetch))

	for _, i := range toFetch {
		swg.Add()
		go s.FetchLanguagesForSingleRepository(ctx, enriched[i], &swg, results)
	}

	log.Debug("waiting for all threads for loading repositories to be finished")
	swg.Wait()
	close(results)

	var errs *multierror.Error
	languagesByID := make(map[int64]model.LinguisticData, len(toFetch))

	for result := range results {
		if result.Err != nil {
			errs = multierror.Append(errs, result.Err)
			continue
		}

		languagesByID[result.RepositoryID] = result.Languages
	}

	for _, i := range toFetch {
		languages, found := languagesByID[enriched[i].ID]
		if !found {
			enriched[i].Languages = nil
			continue
		}

		enriched[i].Languages = languages
		s.languagesCache.Add(languagesCacheKey(enriched[i]), languages.Clone())
	}

	return enriched, errs.ErrorOrNil()
}

// FetchLanguagesForSingleRepository get the languages for a specific repository and send the result to the channel
// note: the rate limit is not checked here, it is done by the caller for all repositories at once
func (s githubService) FetchLanguagesForSingleRepository(ctx context.Context, r model.RepositoryMetaData, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages) {
	defer swg.Done()

	log.WithFields(log.Fields{
		"repositoryID":     r.ID,
		"mostUsedLanguage": r.PrimaryLanguage,
	}).Debug("fetch languages for repository")

	languages, _, err := s.githubClient.Repositories.ListLanguages(ctx, r.Owner, r.Name)
	if err != nil {
		ch <- model.RepositoryLanguages{
			RepositoryID: r.ID,
			Err:          fmt.Errorf("unable to load languages of %s: %w", r.FullName(), s.HandleRequestErrors(err)),
		}
		return
	}

	ch <- model.RepositoryLanguages{RepositoryID: r.ID, Languages: languages}
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError

	if errors.As(err, &rateLimitErr) {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			return model.ErrRateLimiter
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimitReached
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return model.ErrFetch
}

// CalculateRepositoriesDiskSize sum the size (kB) of all repositories
func CalculateRepositoriesDiskSize(repos []model.RepositoryMetaData) int {
	total := 0

	for _, r := range repos {
		total += r.Size
	}

	log.WithField("totalSizeKB", total).Debug("repositories disk size calculated")
	return total
}

func toRepositoryMetaData(r *github.Repository) (model.RepositoryMetaData, bool) {
	if r == nil || r.ID == nil || r.Name == nil || r.Owner == nil || r.Owner.Login == nil {
		return model.RepositoryMetaData{}, false
	}

	return model.RepositoryMetaData{
		ID:              r.GetID(),
		Name:            r.GetName(),
		Owner:           r.GetOwner().GetLogin(),
		HTMLURL:         r.GetHTMLURL(),
		Size:            r.GetSize(),
		Fork:            r.GetFork(),
		Archived:        r.GetArchived(),
		Disabled:        r.GetDisabled(),
		IsTemplate:      r.GetIsTemplate(),
		PushedAt:        r.GetPushedAt().Time,
		PrimaryLanguage: r.GetLanguage(),
	}, true
}

func languagesCacheKey(r model.RepositoryMetaData) string {
	return fmt.Sprintf("%d@%d", r.ID, r.PushedAt.Unix())
}
