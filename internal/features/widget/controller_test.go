package widget

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	bugs "bugtrail/internal/features/bugs"
	projects_testing "bugtrail/internal/features/projects/testing"
	users_dto "bugtrail/internal/features/users/dto"
	users_testing "bugtrail/internal/features/users/testing"
	test_utils "bugtrail/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createWidgetTestRouter() *gin.Engine {
	return projects_testing.CreateTestRouter(GetWidgetController())
}

func setupWidget(
	t *testing.T,
	router *gin.Engine,
) (owner *users_dto.SignInResponseDTO, slug string, token string) {
	t.Helper()

	owner = users_testing.CreateTestUser()
	project := projects_testing.CreateTestProject("Widget Host", owner, router)

	var widgetToken WidgetToken
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/widget/settings/"+project.Slug+"/generate",
		"Bearer "+owner.Token,
		nil,
		http.StatusOK,
		&widgetToken,
	)

	require.NotEmpty(t, widgetToken.Token)

	return owner, project.Slug, widgetToken.Token
}

// makeWidgetRequest sends an unauthenticated gateway request with an
// explicit Origin header.
func makeWidgetRequest(
	router *gin.Engine,
	method, url, origin string,
	body any,
) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func Test_GenerateToken_CreatesEnabledWidget(t *testing.T) {
	router := createWidgetTestRouter()
	owner, slug, token := setupWidget(t, router)

	assert.True(t, len(token) > 20)

	var settings WidgetToken
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/widget/settings/"+slug,
		"Bearer "+owner.Token,
		http.StatusOK,
		&settings,
	)

	assert.Equal(t, token, settings.Token)
	assert.True(t, settings.Enabled)
	assert.Empty(t, settings.AllowedOrigins)
}

func Test_GenerateToken_RegenerationKillsOldToken(t *testing.T) {
	router := createWidgetTestRouter()
	owner, slug, oldToken := setupWidget(t, router)

	var regenerated WidgetToken
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/widget/settings/"+slug+"/generate",
		"Bearer "+owner.Token,
		nil,
		http.StatusOK,
		&regenerated,
	)

	assert.NotEqual(t, oldToken, regenerated.Token)

	w := makeWidgetRequest(router, "GET", "/widget/"+oldToken+"/config", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = makeWidgetRequest(router, "GET", "/widget/"+regenerated.Token+"/config", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_WidgetSettings_ByNonAdmin_ReturnsForbidden(t *testing.T) {
	router := createWidgetTestRouter()
	_, slug, _ := setupWidget(t, router)

	stranger := users_testing.CreateTestUser()

	test_utils.MakeGetRequest(t, router, "/widget/settings/"+slug, "Bearer "+stranger.Token, http.StatusForbidden)
}

func Test_WidgetSettings_NotConfigured_ReturnsNotFound(t *testing.T) {
	router := createWidgetTestRouter()
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("No Widget Yet", owner, router)

	test_utils.MakeGetRequest(
		t,
		router,
		"/widget/settings/"+project.Slug,
		"Bearer "+owner.Token,
		http.StatusNotFound,
	)
}

func Test_GetConfig_ValidToken_ReturnsProjectInfo(t *testing.T) {
	router := createWidgetTestRouter()
	_, slug, token := setupWidget(t, router)

	w := makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "https://shop.example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var config WidgetConfigResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, slug, config.ProjectSlug)
	assert.NotEmpty(t, config.ProjectName)
}

func Test_GetConfig_UnknownToken_ReturnsNotFound(t *testing.T) {
	router := createWidgetTestRouter()

	w := makeWidgetRequest(router, "GET", "/widget/bt_nonexistent/config", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_CreateWidgetBug_Anonymous_GetsExternalDefaults(t *testing.T) {
	router := createWidgetTestRouter()
	_, _, token := setupWidget(t, router)

	request := bugs.CreateExternalBugRequestDTO{Title: "Button does nothing"}

	w := makeWidgetRequest(router, "POST", "/widget/"+token+"/bugs", "https://shop.example.com", request)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bug bugs.Bug
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bug))

	assert.Nil(t, bug.ReporterID)
	assert.Equal(t, bugs.BugSourceCustomerReport, bug.Source)
	assert.Equal(t, bugs.BugStatusTriage, bug.Status)
	assert.Equal(t, bugs.BugPriorityMedium, bug.Priority)
}

func Test_CreateWidgetBug_WithReporterEmail_KeepsIt(t *testing.T) {
	router := createWidgetTestRouter()
	_, _, token := setupWidget(t, router)

	email := "shopper@example.com"
	request := bugs.CreateExternalBugRequestDTO{
		Title:         "Checkout hangs",
		ReporterEmail: &email,
	}

	w := makeWidgetRequest(router, "POST", "/widget/"+token+"/bugs", "", request)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var bug bugs.Bug
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bug))
	require.NotNil(t, bug.ReporterEmail)
	assert.Equal(t, email, *bug.ReporterEmail)
}

func Test_OriginAllowlist_IsEnforced(t *testing.T) {
	router := createWidgetTestRouter()
	owner, slug, token := setupWidget(t, router)

	origins := []string{"https://shop.example.com"}
	update := UpdateWidgetRequestDTO{AllowedOrigins: &origins}
	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/widget/settings/"+slug,
		"Bearer "+owner.Token,
		update,
		http.StatusOK,
	)

	w := makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "https://shop.example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "https://evil.example", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// requests without an Origin or Referer header skip the check
	w = makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func Test_DisabledWidget_RejectsGatewayCalls(t *testing.T) {
	router := createWidgetTestRouter()
	owner, slug, token := setupWidget(t, router)

	enabled := false
	update := UpdateWidgetRequestDTO{Enabled: &enabled}
	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/widget/settings/"+slug,
		"Bearer "+owner.Token,
		update,
		http.StatusOK,
	)

	w := makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	request := bugs.CreateExternalBugRequestDTO{Title: "Should not land"}
	w = makeWidgetRequest(router, "POST", "/widget/"+token+"/bugs", "", request)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_DeleteWidget_RemovesTokenAndSettings(t *testing.T) {
	router := createWidgetTestRouter()
	owner, slug, token := setupWidget(t, router)

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/widget/settings/"+slug,
		"Bearer "+owner.Token,
		nil,
		http.StatusOK,
	)

	test_utils.MakeGetRequest(t, router, "/widget/settings/"+slug, "Bearer "+owner.Token, http.StatusNotFound)

	w := makeWidgetRequest(router, "GET", "/widget/"+token+"/config", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_EmbedScript_ServesJavaScriptWithToken(t *testing.T) {
	router := createWidgetTestRouter()
	_, _, token := setupWidget(t, router)

	w := makeWidgetRequest(router, "GET", "/widget/embed.js?token="+token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "javascript")
	assert.Contains(t, w.Body.String(), token)
}

func Test_EmbedScript_MissingOrMalformedToken_ReturnsBadRequest(t *testing.T) {
	router := createWidgetTestRouter()

	w := makeWidgetRequest(router, "GET", "/widget/embed.js", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = makeWidgetRequest(router, "GET", "/widget/embed.js?token=abc%27def", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
