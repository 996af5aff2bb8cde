package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/facultysite/internal/app"
	"github.com/charlesng35/facultysite/internal/handlers/testutil"
	"github.com/charlesng35/facultysite/internal/models"
)

func TestContentHandler_ProfileDefaultsAndUpdate(t *testing.T) {
	env := testutil.NewEnv(t, func(cfg *app.Config) {
		cfg.Content.Profile.TeacherName = "Dr. Jane Example"
		cfg.Content.Profile.Specializations = []string{"Topology"}
	})
	token := env.AdminToken()

	get := env.Request(http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusOK, get.Code, get.Body.String())
	var profile models.Profile
	testutil.DecodeInto(t, testutil.DecodeResponse(t, get).Data, &profile)
	require.Equal(t, "Dr. Jane Example", profile.TeacherName)
	require.Equal(t, []string{"Topology"}, []string(profile.Specializations))
	require.NotEmpty(t, profile.Department)

	update := env.Request(http.MethodPut, "/api/profile", map[string]any{
		"title": "Professor",
		"education": []map[string]string{
			{"degree": "PhD", "institution": "Example University", "field": "Mathematics"},
		},
	}, token)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())
	testutil.DecodeInto(t, testutil.DecodeResponse(t, update).Data, &profile)
	require.Equal(t, "Professor", profile.Title)
	require.Equal(t, "Dr. Jane Example", profile.TeacherName)
	require.Len(t, profile.Education, 1)

	var count int64
	require.NoError(t, env.DB.Model(&models.Profile{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	unauth := env.Request(http.MethodPut, "/api/profile", map[string]any{"title": "Nope"}, "")
	require.Equal(t, http.StatusUnauthorized, unauth.Code)
}

func TestContentHandler_SocialUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	update := env.Request(http.MethodPut, "/api/social", map[string]string{
		"github": "https://github.com/example",
	}, token)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	get := env.Request(http.MethodGet, "/api/social", nil, "")
	require.Equal(t, http.StatusOK, get.Code)
	var social models.Social
	testutil.DecodeInto(t, testutil.DecodeResponse(t, get).Data, &social)
	require.Equal(t, "https://github.com/example", social.Github)

	invalid := env.Request(http.MethodPut, "/api/social", map[string]string{"email": "not-an-email"}, token)
	require.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestPublicationHandler_PaginationEnvelope(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	for i := 0; i < 3; i++ {
		resp := env.Request(http.MethodPost, "/api/publication", map[string]any{
			"title":     fmt.Sprintf("Paper %d", i),
			"authors":   "A. Author",
			"journal":   "Journal of Examples",
			"year":      "2024",
			"citations": i,
			"doi":       fmt.Sprintf("10.1000/%d", i),
			"image":     "/uploads/cover.png",
			"order":     3 - i,
		}, token)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	page := env.Request(http.MethodGet, "/api/publication?page=1&limit=2", nil, "")
	require.Equal(t, http.StatusOK, page.Code)
	decoded := testutil.DecodeResponse(t, page)
	require.NotNil(t, decoded.Pagination)
	require.EqualValues(t, 3, decoded.Pagination.Total)
	require.Equal(t, 2, decoded.Pagination.Pages)
	require.Equal(t, 2, decoded.Pagination.Limit)

	var items []models.Publication
	testutil.DecodeInto(t, decoded.Data, &items)
	require.Len(t, items, 2)
	require.Equal(t, "Paper 2", items[0].Title)

	incomplete := env.Request(http.MethodPost, "/api/publication", map[string]any{"title": "Draft"}, token)
	require.Equal(t, http.StatusBadRequest, incomplete.Code)
	require.Equal(t, "All fields are required", testutil.DecodeResponse(t, incomplete).Error)
}

func TestResearchWorkHandler_CRUD(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.AdminToken()

	create := env.Request(http.MethodPost, "/api/research-work", map[string]any{
		"title":       "Turbulence modelling",
		"description": "Large eddy simulation of channel flow",
		"image":       "/uploads/flow.png",
		"year":        "2023",
		"category":    "CFD",
	}, token)
	require.Equal(t, http.StatusCreated, create.Code, create.Body.String())
	var work models.ResearchWork
	testutil.DecodeInto(t, testutil.DecodeResponse(t, create).Data, &work)
	require.Equal(t, "Published", work.Status)

	update := env.Request(http.MethodPut, "/api/research-work/"+work.ID, map[string]any{"status": "Ongoing"}, token)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	list := env.Request(http.MethodGet, "/api/research-work", nil, "")
	require.Equal(t, http.StatusOK, list.Code)
	decoded := testutil.DecodeResponse(t, list)
	require.EqualValues(t, 1, decoded.Pagination.Total)

	del := env.Request(http.MethodDelete, "/api/research-work/"+work.ID, nil, token)
	require.Equal(t, http.StatusOK, del.Code)

	missing := env.Request(http.MethodDelete, "/api/research-work/"+work.ID, nil, token)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, "Research work not found", testutil.DecodeResponse(t, missing).Error)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	env := testutil.NewEnv(t)

	health := env.Request(http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, health.Code)
	require.JSONEq(t, `{"success":true,"data":{"status":"ok","database":"ok"}}`, health.Body.String())

	unknown := env.Request(http.MethodGet, "/api/does-not-exist", nil, "")
	require.Equal(t, http.StatusNotFound, unknown.Code)
	require.Equal(t, "Route not found", testutil.DecodeResponse(t, unknown).Error)
}
