package controller

import (
	"net/http"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/Scalingo/sclng-language-stats/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIController interface {
	GetRepositories(ctx *gin.Context)
	RefreshRepositories(ctx *gin.Context)
	GetLanguages(ctx *gin.Context)
	GetLanguageDistribution(ctx *gin.Context)
	GetCategoryDistribution(ctx *gin.Context)
	GetSummary(ctx *gin.Context)
}

type apiController struct {
	reportService service.ReportService
	config        config.Config
}

func NewAPIController(config config.Config, service service.ReportService) APIController {
	return apiController{
		reportService: service,
		config:        config,
	}
}

// RegisterRoutes add all routes of the controller to the router group
func RegisterRoutes(group *gin.RouterGroup, c APIController) {
	group.GET("/repos", c.GetRepositories)
	group.POST("/repos/refresh", c.RefreshRepositories)
	group.GET("/languages", c.GetLanguages)
	group.GET("/languages/distribution", c.GetLanguageDistribution)
	group.GET("/categories", c.GetCategoryDistribution)
	group.GET("/summary", c.GetSummary)
}

func (s apiController) GetRepositories(c *gin.Context) {
	repos, err := s.reportService.Repositories(c, s.config.Github.Organisation)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, repos)
}

func (s apiController) RefreshRepositories(c *gin.Context) {
	repos, err := s.reportService.RefreshRepositories(c, s.config.Github.Organisation)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"repositories": len(repos)})
}

func (s apiController) GetLanguages(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report.Languages)
}

func (s apiController) GetLanguageDistribution(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report.LanguageDistribution)
}

func (s apiController) GetCategoryDistribution(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"repositories": report.RepositoryCategories,
		"categories":   report.CategoryDistribution,
	})
}

func (s apiController) GetSummary(c *gin.Context) {
	report, ok := s.buildReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organisation":          report.Organisation,
		"repositoriesCount":     report.RepositoriesCount,
		"totalSizeKB":           report.TotalSizeKB,
		"compactCategories":     report.CompactCategories,
		"compactCategoryShares": report.CompactCategoryShares,
		"compactLanguages":      report.CompactLanguages,
	})
}

func (s apiController) buildReport(c *gin.Context) (model.Report, bool) {
	var query model.EvaluationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, model.APIError{Code: "INVALID_QUERY", Message: err.Error()})
		return model.Report{}, false
	}

	opts := query.Apply(s.reportService.DefaultOptions())

	report, err := s.reportService.BuildReport(c, s.config.Github.Organisation, opts)
	if err != nil {
		s.abortWithError(c, err)
		return model.Report{}, false
	}

	return report, true
}

func (s apiController) abortWithError(c *gin.Context, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("unable to process request")
	_ = c.Error(err)

	apiError := model.NewAPIError(err)

	switch apiError.Code {
	case model.ErrNoRepositories.Error():
		c.JSON(http.StatusNotFound, apiError)
	case model.ErrInvalidConfig.Error():
		c.JSON(http.StatusBadRequest, apiError)
	case model.ErrRateLimitReached.Error():
		c.JSON(http.StatusTooManyRequests, apiError)
	default:
		c.JSON(http.StatusInternalServerError, apiError)
	}
}
