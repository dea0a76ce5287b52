package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Scalingo/sclng-language-stats/config"
	"github.com/Scalingo/sclng-language-stats/model"
	"github.com/Scalingo/sclng-language-stats/service"
	"github.com/Scalingo/sclng-language-stats/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, repos []model.RepositoryMetaData) *gin.Engine {
	t.Helper()

	conf := config.GetDefault()
	conf.Github.Organisation = "test-org"

	store := storage.NewFileStore(t.TempDir())
	if repos != nil {
		require.NoError(t, store.SaveRepositories(context.Background(), "test-org", repos))
	}

	reportService := service.NewReportService(*conf, nil, store)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group(""), NewAPIController(*conf, reportService))

	return router
}

func testRepositories() []model.RepositoryMetaData {
	return []model.RepositoryMetaData{
		{ID: 1, Name: "api", Owner: "test-org", Languages: model.LinguisticData{"Java": 800, "HTML": 200}},
		{ID: 2, Name: "web", Owner: "test-org", Languages: model.LinguisticData{"Vue": 1000}},
		{ID: 3, Name: "tools", Owner: "test-org", Languages: model.LinguisticData{"Go": 1000}},
	}
}

// TestAPIController test the report endpoints
func TestAPIController(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		repos          []model.RepositoryMetaData
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Stored repositories",
			method:         http.MethodGet,
			url:            "/repos",
			repos:          testRepositories()[:1],
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":1,"name":"api","owner":"test-org","htmlUrl":"","size":0,"fork":false,"archived":false,"disabled":false,"isTemplate":false,"pushedAt":"0001-01-01T00:00:00Z","languages":{"HTML":200,"Java":800}}]`,
		},
		{
			name:           "Distinct languages",
			method:         http.MethodGet,
			url:            "/languages",
			repos:          testRepositories(),
			expectedStatus: http.StatusOK,
			expectedBody:   `["Go","HTML","Java","Vue"]`,
		},
		{
			name:           "Language distribution",
			method:         http.MethodGet,
			url:            "/languages/distribution",
			repos:          testRepositories(),
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"language":"Go","bytes":1000,"percentage":33.33},{"language":"Vue","bytes":1000,"percentage":33.33},{"language":"Java","bytes":800,"percentage":26.67},{"language":"HTML","bytes":200,"percentage":6.67}]`,
		},
		{
			name:           "Category distribution with threshold override",
			method:         http.MethodGet,
			url:            "/categories?threshold=10&precision=0",
			repos:          testRepositories(),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"categories":[{"category":"Backend + Frontend","count":1,"percentage":33,"normalizedPercentage":50},{"category":"Frontend","count":1,"percentage":33,"normalizedPercentage":50},{"category":"Rest","count":1,"percentage":33,"normalizedPercentage":0}],"repositories":[{"repositoryName":"api","category":"Backend + Frontend"},{"repositoryName":"tools","category":"Rest"},{"repositoryName":"web","category":"Frontend"}]}`,
		},
		{
			name:           "Summary",
			method:         http.MethodGet,
			url:            "/summary",
			repos:          testRepositories(),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"compactCategories":"50.0/Backend + Frontend,50.0/Frontend,0.0/Rest","compactCategoryShares":"33.3/Backend + Frontend,33.3/Frontend,33.3/Rest","compactLanguages":"33.3/Go,33.3/Vue,26.7/Java,6.7/HTML","organisation":"test-org","repositoriesCount":3,"totalSizeKB":0}`,
		},
		{
			name:           "Invalid threshold override",
			method:         http.MethodGet,
			url:            "/categories?threshold=150",
			repos:          testRepositories(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Precision too large",
			method:         http.MethodGet,
			url:            "/categories?precision=400",
			repos:          testRepositories(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Empty snapshot",
			method:         http.MethodGet,
			url:            "/languages",
			repos:          []model.RepositoryMetaData{},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "Malformed query",
			method:         http.MethodGet,
			url:            "/summary?precision=abc",
			repos:          testRepositories(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "No snapshot stored",
			method:         http.MethodGet,
			url:            "/languages",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"code":"NO_REPOSITORIES_FOUND","message":"no repositories stored for this organisation. refresh the repositories first"}`,
		},
		{
			name:           "Refresh without github client",
			method:         http.MethodPost,
			url:            "/repos/refresh",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, tt.repos)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			} else {
				var apiError model.APIError
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiError))
				assert.NotEmpty(t, apiError.Code)
			}
		})
	}
}
