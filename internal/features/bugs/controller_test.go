package bugs

import (
	"net/http"
	"testing"

	projects_services "bugtrail/internal/features/projects/services"
	projects_testing "bugtrail/internal/features/projects/testing"
	users_dto "bugtrail/internal/features/users/dto"
	users_enums "bugtrail/internal/features/users/enums"
	users_services "bugtrail/internal/features/users/services"
	users_testing "bugtrail/internal/features/users/testing"
	test_utils "bugtrail/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBugTestRouter() *gin.Engine {
	return projects_testing.CreateTestRouter(GetBugController())
}

func setupBugProject(
	t *testing.T,
	router *gin.Engine,
	memberRole users_enums.ProjectRole,
	isPublic bool,
) (owner, member *users_dto.SignInResponseDTO, projectID uuid.UUID) {
	t.Helper()

	owner = users_testing.CreateTestUser()
	member = users_testing.CreateTestUser()

	if isPublic {
		p := projects_testing.CreateTestPublicProject("Bug Project", owner, router)
		projectID = p.ID
	} else {
		p := projects_testing.CreateTestProject("Bug Project", owner, router)
		projectID = p.ID
	}

	projects_testing.AddMemberDirect(projectID, member.User.ID, memberRole)

	return owner, member, projectID
}

func createBugViaAPI(
	t *testing.T,
	router *gin.Engine,
	token string,
	projectID uuid.UUID,
	title string,
) *Bug {
	t.Helper()

	request := CreateBugRequestDTO{Title: title, ProjectID: projectID}

	var bug Bug
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/bugs",
		"Bearer "+token,
		request,
		http.StatusCreated,
		&bug,
	)

	return &bug
}

func Test_CreateBug_ByMember_AppliesDefaults(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Cart total is wrong")

	assert.NotEqual(t, uuid.Nil, bug.ID)
	assert.Equal(t, projectID, bug.ProjectID)
	assert.Equal(t, BugPriorityMedium, bug.Priority)
	assert.Equal(t, BugStatusTriage, bug.Status)
	assert.Equal(t, BugSourceInternalQA, bug.Source)
	require.NotNil(t, bug.ReporterID)
	assert.Equal(t, member.User.ID, *bug.ReporterID)
}

func Test_CreateBug_ByViewer_ReturnsForbidden(t *testing.T) {
	router := createBugTestRouter()
	_, viewer, projectID := setupBugProject(t, router, users_enums.ProjectRoleViewer, false)

	request := CreateBugRequestDTO{Title: "Viewer cannot file", ProjectID: projectID}
	test_utils.MakeRequest(t, router, "POST", "/bugs", "Bearer "+viewer.Token, request, http.StatusForbidden)
}

func Test_CreateBug_OnPublicProject_ByStranger_ReturnsForbidden(t *testing.T) {
	router := createBugTestRouter()
	owner := users_testing.CreateTestUser()
	stranger := users_testing.CreateTestUser()

	project := projects_testing.CreateTestPublicProject("Read Only Public", owner, router)

	// public visibility grants reads, never writes
	request := CreateBugRequestDTO{Title: "Drive-by report", ProjectID: project.ID}
	test_utils.MakeRequest(t, router, "POST", "/bugs", "Bearer "+stranger.Token, request, http.StatusForbidden)
}

func Test_CreateBug_WithExplicitFields_KeepsThem(t *testing.T) {
	router := createBugTestRouter()
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Detailed Bugs", owner, router)

	description := "Steps: open cart, remove item, total stays"
	priority := BugPriorityCritical
	source := BugSourceProductionAlert

	request := CreateBugRequestDTO{
		Title:       "Stale cart total",
		Description: &description,
		ProjectID:   project.ID,
		Priority:    &priority,
		Source:      &source,
		Screenshots: []string{"https://cdn.example.com/shot-1.png", "https://cdn.example.com/shot-2.png"},
	}

	var bug Bug
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/bugs",
		"Bearer "+owner.Token,
		request,
		http.StatusCreated,
		&bug,
	)

	assert.Equal(t, BugPriorityCritical, bug.Priority)
	assert.Equal(t, BugSourceProductionAlert, bug.Source)
	require.NotNil(t, bug.Description)
	assert.Len(t, bug.Screenshots, 2)
}

func Test_ListProjectBugs_PublicProject_AnonymousCanRead(t *testing.T) {
	router := createBugTestRouter()
	owner, _, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, true)

	created := createBugViaAPI(t, router, owner.Token, projectID, "Visible to everyone")

	var response ListBugsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/bugs/project/"+projectID.String(),
		"",
		http.StatusOK,
		&response,
	)

	require.NotEmpty(t, response.Bugs)
	assert.Equal(t, created.ID, response.Bugs[0].ID)
}

func Test_ListProjectBugs_PrivateProject_AnonymousGetsForbidden(t *testing.T) {
	router := createBugTestRouter()
	_, _, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	test_utils.MakeGetRequest(t, router, "/bugs/project/"+projectID.String(), "", http.StatusForbidden)
}

func Test_GetBug_PrivateProject_RequiresMembership(t *testing.T) {
	router := createBugTestRouter()
	owner, _, projectID := setupBugProject(t, router, users_enums.ProjectRoleViewer, false)

	bug := createBugViaAPI(t, router, owner.Token, projectID, "Members only")

	stranger := users_testing.CreateTestUser()
	test_utils.MakeGetRequest(t, router, "/bugs/"+bug.ID.String(), "Bearer "+stranger.Token, http.StatusForbidden)

	var fetched Bug
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/bugs/"+bug.ID.String(),
		"Bearer "+owner.Token,
		http.StatusOK,
		&fetched,
	)
	assert.Equal(t, bug.ID, fetched.ID)
}

func Test_UpdateBug_ByViewer_ReturnsForbidden(t *testing.T) {
	router := createBugTestRouter()
	owner, viewer, projectID := setupBugProject(t, router, users_enums.ProjectRoleViewer, false)

	bug := createBugViaAPI(t, router, owner.Token, projectID, "Untouchable")

	newTitle := "Renamed"
	request := UpdateBugRequestDTO{Title: &newTitle}
	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/bugs/"+bug.ID.String(),
		"Bearer "+viewer.Token,
		request,
		http.StatusForbidden,
	)
}

func Test_UpdateBug_ByMember_ChangesFields(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Initial title")

	newTitle := "Sharper title"
	priority := BugPriorityHigh
	request := UpdateBugRequestDTO{Title: &newTitle, Priority: &priority}

	var updated Bug
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"PUT",
		"/bugs/"+bug.ID.String(),
		"Bearer "+member.Token,
		request,
		http.StatusOK,
		&updated,
	)

	assert.Equal(t, "Sharper title", updated.Title)
	assert.Equal(t, BugPriorityHigh, updated.Priority)
}

func Test_ChangeStatus_MovesBugThroughPipeline(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Pipeline bug")

	request := ChangeStatusRequestDTO{Status: BugStatusInProgress}

	var updated Bug
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"PATCH",
		"/bugs/"+bug.ID.String()+"/status",
		"Bearer "+member.Token,
		request,
		http.StatusOK,
		&updated,
	)

	assert.Equal(t, BugStatusInProgress, updated.Status)
}

func Test_ChangeStatus_InvalidValue_ReturnsBadRequest(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Bad status target")

	request := ChangeStatusRequestDTO{Status: BugStatus("SHIPPED")}
	test_utils.MakeRequest(
		t,
		router,
		"PATCH",
		"/bugs/"+bug.ID.String()+"/status",
		"Bearer "+member.Token,
		request,
		http.StatusBadRequest,
	)
}

func Test_DeleteBug_ByMemberWhoIsNotReporter_ReturnsForbidden(t *testing.T) {
	router := createBugTestRouter()
	owner, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, owner.Token, projectID, "Protected from members")

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/bugs/"+bug.ID.String(),
		"Bearer "+member.Token,
		nil,
		http.StatusForbidden,
	)
}

func Test_DeleteBug_ByReporter_Succeeds(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Reporter cleans up")

	test_utils.MakeRequest(
		t,
		router,
		"DELETE",
		"/bugs/"+bug.ID.String(),
		"Bearer "+member.Token,
		nil,
		http.StatusOK,
	)

	test_utils.MakeGetRequest(t, router, "/bugs/"+bug.ID.String(), "Bearer "+member.Token, http.StatusNotFound)
}

func Test_UpdateBug_ReporterWithoutWriteRole_CannotChangeStatus(t *testing.T) {
	router := createBugTestRouter()
	_, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Reported before demotion")

	memberRepository := projects_services.GetMemberRepository()
	memberRow, err := memberRepository.GetMember(projectID, member.User.ID)
	require.NoError(t, err)
	require.NotNil(t, memberRow)
	require.NoError(t, memberRepository.UpdateMemberRole(memberRow.ID, users_enums.ProjectRoleViewer))

	// the reporter may still edit the report itself
	newTitle := "Reported before demotion, clarified"
	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/bugs/"+bug.ID.String(),
		"Bearer "+member.Token,
		UpdateBugRequestDTO{Title: &newTitle},
		http.StatusOK,
	)

	status := BugStatusInProgress
	test_utils.MakeRequest(
		t,
		router,
		"PUT",
		"/bugs/"+bug.ID.String(),
		"Bearer "+member.Token,
		UpdateBugRequestDTO{Status: &status},
		http.StatusForbidden,
	)
}

func Test_DeleteUser_KeepsAuthoredBugsWithReporterCleared(t *testing.T) {
	router := createBugTestRouter()
	owner, member, projectID := setupBugProject(t, router, users_enums.ProjectRoleMember, false)

	bug := createBugViaAPI(t, router, member.Token, projectID, "Outlives its reporter")

	require.NoError(t, users_services.GetUserService().DeleteUser(member.User.ID))

	stored, err := (&BugRepository{}).GetBugByID(bug.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.ReporterID)

	memberRow, err := projects_services.GetMemberRepository().GetMember(projectID, member.User.ID)
	require.NoError(t, err)
	assert.Nil(t, memberRow)

	var fetched Bug
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/bugs/"+bug.ID.String(),
		"Bearer "+owner.Token,
		http.StatusOK,
		&fetched,
	)
	assert.Nil(t, fetched.ReporterID)
}

func Test_DeleteUser_RemovesOwnedProjectsAndTheirBugs(t *testing.T) {
	router := createBugTestRouter()
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Dies With Owner", owner, router)
	bug := createBugViaAPI(t, router, owner.Token, project.ID, "Orphaned report")

	require.NoError(t, users_services.GetUserService().DeleteUser(owner.User.ID))

	storedProject, err := projects_services.GetProjectRepository().GetProjectByID(project.ID)
	require.NoError(t, err)
	assert.Nil(t, storedProject)

	storedBug, err := (&BugRepository{}).GetBugByID(bug.ID)
	require.NoError(t, err)
	assert.Nil(t, storedBug)
}
