package projects_controllers

import (
	"fmt"
	"net/http"
	"testing"

	bugs "bugtrail/internal/features/bugs"
	members "bugtrail/internal/features/members"
	projects_dto "bugtrail/internal/features/projects/dto"
	projects_models "bugtrail/internal/features/projects/models"
	projects_services "bugtrail/internal/features/projects/services"
	projects_testing "bugtrail/internal/features/projects/testing"
	users_enums "bugtrail/internal/features/users/enums"
	users_testing "bugtrail/internal/features/users/testing"
	test_utils "bugtrail/internal/util/testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateProject_ReturnsProjectWithSlug(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	request := projects_dto.CreateProjectRequestDTO{
		Name:     "Checkout Service",
		IsPublic: false,
	}

	var response projects_dto.ProjectResponseDTO
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/projects",
		"Bearer "+owner.Token,
		request,
		http.StatusCreated,
		&response,
	)

	assert.NotEqual(t, uuid.Nil, response.ID)
	assert.Equal(t, "Checkout Service", response.Name)
	assert.Equal(t, owner.User.ID, response.OwnerID)
	assert.Contains(t, response.Slug, "checkout-service")
	assert.False(t, response.IsPublic)
	assert.Equal(t, "OWNER", *response.MemberRole)
}

func Test_CreateProject_DuplicateNames_GetDistinctSlugs(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	name := fmt.Sprintf("Same Name %s", uuid.New().String()[:8])

	first := projects_testing.CreateTestProject(name, owner, router)
	second := projects_testing.CreateTestProject(name, owner, router)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, first.Slug)
}

func Test_CreateProject_WithoutSession_ReturnsUnauthorized(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())

	request := projects_dto.CreateProjectRequestDTO{Name: "No Session"}
	test_utils.MakeRequest(t, router, "POST", "/projects", "", request, http.StatusUnauthorized)
}

func Test_ListProjects_ReturnsOwnedProject(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Listed Project", owner, router)

	var response projects_dto.ListProjectsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/projects",
		"Bearer "+owner.Token,
		http.StatusOK,
		&response,
	)

	found := false
	for _, p := range response.Projects {
		if p.ID == project.ID {
			found = true
			assert.Equal(t, "OWNER", *p.MemberRole)
		}
	}
	assert.True(t, found, "created project should appear in the owner's list")
}

func Test_GetProjectBySlug_PublicProject_AnonymousCanRead(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestPublicProject("Open Board", owner, router)

	var response projects_models.Project
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/projects/"+project.Slug,
		"",
		http.StatusOK,
		&response,
	)

	assert.Equal(t, project.ID, response.ID)
	assert.True(t, response.IsPublic)
}

func Test_GetProjectBySlug_PrivateProject_AnonymousGetsForbidden(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Closed Board", owner, router)

	test_utils.MakeGetRequest(t, router, "/projects/"+project.Slug, "", http.StatusForbidden)
}

func Test_GetProjectBySlug_UnknownSlug_ReturnsNotFound(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())

	test_utils.MakeGetRequest(t, router, "/projects/no-such-project-"+uuid.New().String()[:8], "", http.StatusNotFound)
}

func Test_ListPublicProjects_ContainsOnlyPublicOnes(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	public := projects_testing.CreateTestPublicProject("Public Directory Entry", owner, router)
	private := projects_testing.CreateTestProject("Private Entry", owner, router)

	var response projects_dto.ListProjectsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/projects/public",
		"",
		http.StatusOK,
		&response,
	)

	foundPublic := false
	for _, p := range response.Projects {
		assert.NotEqual(t, private.ID, p.ID)
		if p.ID == public.ID {
			foundPublic = true
		}
	}
	assert.True(t, foundPublic)
}

func Test_UpdateProject_ByNonOwner_ReturnsForbidden(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()
	other := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Owner Locked", owner, router)

	newName := "Hijacked"
	request := projects_dto.UpdateProjectRequestDTO{Name: &newName}

	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/projects/"+project.ID.String(),
		"Bearer "+other.Token,
		request,
		http.StatusForbidden,
	)
}

func Test_UpdateProject_ByOwner_ChangesVisibility(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Goes Public", owner, router)

	isPublic := true
	request := projects_dto.UpdateProjectRequestDTO{IsPublic: &isPublic}

	var response projects_models.Project
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"PUT",
		"/projects/"+project.ID.String(),
		"Bearer "+owner.Token,
		request,
		http.StatusOK,
		&response,
	)

	assert.True(t, response.IsPublic)
	assert.Equal(t, project.Slug, response.Slug)
}

func Test_DeleteProject_ByNonOwner_ReturnsForbidden(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()
	other := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Sticky Project", owner, router)

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/projects/"+project.ID.String(),
		"Bearer "+other.Token,
		nil,
		http.StatusForbidden,
	)
}

func Test_DeleteProject_ByOwner_RemovesProject(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestPublicProject("Short Lived", owner, router)

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/projects/"+project.ID.String(),
		"Bearer "+owner.Token,
		nil,
		http.StatusOK,
	)

	test_utils.MakeGetRequest(t, router, "/projects/"+project.Slug, "", http.StatusNotFound)
}

func Test_GetAuditLogs_RequiresAdminRights(t *testing.T) {
	router := projects_testing.CreateTestRouter(GetProjectController())
	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Audited Project", owner, router)

	test_utils.MakeGetRequest(
		t,
		router,
		"/projects/"+project.Slug+"/audit",
		"Bearer "+stranger.Token,
		http.StatusForbidden,
	)

	resp := test_utils.MakeGetRequest(
		t,
		router,
		"/projects/"+project.Slug+"/audit",
		"Bearer "+owner.Token,
		http.StatusOK,
	)
	assert.Contains(t, string(resp.Body), "auditLogs")
}

func Test_DeleteProject_RemovesBugsMembersAndRequests(t *testing.T) {
	router := projects_testing.CreateTestRouter(
		GetProjectController(),
		bugs.GetBugController(),
		members.GetMemberController(),
	)
	owner := users_testing.CreateTestUser()
	member := users_testing.CreateTestUser()
	requester := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Doomed Project", owner, router)
	projects_testing.AddMemberDirect(project.ID, member.User.ID, users_enums.ProjectRoleMember)

	var bug bugs.Bug
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/bugs",
		"Bearer "+owner.Token,
		bugs.CreateBugRequestDTO{Title: "Goes down with the ship", ProjectID: project.ID},
		http.StatusCreated,
		&bug,
	)

	test_utils.MakeRequest(
		t,
		router,
		"POST",
		"/members/"+project.ID.String()+"/request",
		"Bearer "+requester.Token,
		members.CreateAccessRequestDTO{},
		http.StatusCreated,
	)

	accessRequestRepository := &members.AccessRequestRepository{}
	pending, err := accessRequestRepository.HasPendingRequest(project.ID, requester.User.ID)
	require.NoError(t, err)
	require.True(t, pending)

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/projects/"+project.ID.String(),
		"Bearer "+owner.Token,
		nil,
		http.StatusOK,
	)

	storedBug, err := (&bugs.BugRepository{}).GetBugByID(bug.ID)
	require.NoError(t, err)
	assert.Nil(t, storedBug)

	memberRow, err := projects_services.GetMemberRepository().GetMember(project.ID, member.User.ID)
	require.NoError(t, err)
	assert.Nil(t, memberRow)

	pending, err = accessRequestRepository.HasPendingRequest(project.ID, requester.User.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}
