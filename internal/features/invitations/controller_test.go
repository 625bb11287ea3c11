package invitations

import (
	"fmt"
	"net/http"
	"testing"

	"bugtrail/internal/features/audit_logs"
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

func createInvitationTestRouter() *gin.Engine {
	router := projects_testing.CreateTestRouter(GetInvitationController())
	SetupDependencies()
	return router
}

// createTestInvitation issues an invitation through the service so the
// test can see the raw token, which the API never exposes.
func createTestInvitation(
	t *testing.T,
	owner *users_dto.SignInResponseDTO,
	projectID uuid.UUID,
	email string,
	role users_enums.ProjectRole,
) *Invitation {
	t.Helper()

	project, err := projects_services.GetProjectService().GetProjectByID(projectID)
	require.NoError(t, err)
	require.NotNil(t, project)

	inviter, err := users_services.GetUserService().GetUserByID(owner.User.ID)
	require.NoError(t, err)

	invitation, err := GetInvitationService().CreateInvitation(project, email, role, inviter)
	require.NoError(t, err)

	return invitation
}

func Test_GetInvitationByToken_Anonymous_SeesProjectDetails(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Invited Project", owner, router)

	email := fmt.Sprintf("invitee-%s@test.com", uuid.New().String()[:8])
	invitation := createTestInvitation(t, owner, project.ID, email, users_enums.ProjectRoleMember)

	var response InvitationResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/invitations/"+invitation.Token,
		"",
		http.StatusOK,
		&response,
	)

	assert.Equal(t, email, response.Email)
	assert.Equal(t, project.ID, response.ProjectID)
	assert.Equal(t, project.Slug, response.ProjectSlug)
	assert.Equal(t, InvitationStatusPending, response.Status)
	assert.Equal(t, users_enums.ProjectRoleMember, response.Role)
	assert.NotEmpty(t, response.InviterName)
}

func Test_GetInvitationByToken_UnknownToken_ReturnsNotFound(t *testing.T) {
	router := createInvitationTestRouter()

	test_utils.MakeGetRequest(t, router, "/invitations/deadbeef", "", http.StatusNotFound)
}

func Test_AcceptInvitation_MatchingEmail_CreatesMembership(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Joinable", owner, router)
	invitation := createTestInvitation(t, owner, project.ID, invitee.User.Email, users_enums.ProjectRoleAdmin)

	var response AcceptInvitationResponseDTO
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/invitations/"+invitation.Token+"/accept",
		"Bearer "+invitee.Token,
		nil,
		http.StatusOK,
		&response,
	)

	assert.Equal(t, project.ID, response.ProjectID)
	assert.Equal(t, project.Slug, response.ProjectSlug)
	assert.False(t, response.AlreadyMember)

	member, err := projects_services.GetMemberRepository().GetMember(project.ID, invitee.User.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, users_enums.ProjectRoleAdmin, member.Role)
}

func Test_AcceptInvitation_TokenCannotBeReused(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("One Shot", owner, router)
	invitation := createTestInvitation(t, owner, project.ID, invitee.User.Email, users_enums.ProjectRoleMember)

	url := "/invitations/" + invitation.Token + "/accept"
	test_utils.MakeRequest(t, router, "POST", url, "Bearer "+invitee.Token, nil, http.StatusOK)

	// the invitation is no longer pending, so the token is dead
	test_utils.MakeRequest(t, router, "POST", url, "Bearer "+invitee.Token, nil, http.StatusNotFound)
}

func Test_AcceptInvitation_WrongEmail_ReturnsForbidden(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()
	interloper := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Addressed Mail", owner, router)

	email := fmt.Sprintf("someone-else-%s@test.com", uuid.New().String()[:8])
	invitation := createTestInvitation(t, owner, project.ID, email, users_enums.ProjectRoleMember)

	test_utils.MakeRequest(
		t,
		router,
		"POST",
		"/invitations/"+invitation.Token+"/accept",
		"Bearer "+interloper.Token,
		nil,
		http.StatusForbidden,
	)
}

func Test_AcceptInvitation_WhenAlreadyMember_ReportsAlreadyMember(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Twice Invited", owner, router)

	projects_testing.AddMemberDirect(project.ID, invitee.User.ID, users_enums.ProjectRoleViewer)

	invitation := createTestInvitation(t, owner, project.ID, invitee.User.Email, users_enums.ProjectRoleMember)

	var response AcceptInvitationResponseDTO
	test_utils.MakeRequestAndUnmarshal(
		t,
		router,
		"POST",
		"/invitations/"+invitation.Token+"/accept",
		"Bearer "+invitee.Token,
		nil,
		http.StatusOK,
		&response,
	)

	assert.True(t, response.AlreadyMember)

	// the existing role is left untouched
	member, err := projects_services.GetMemberRepository().GetMember(project.ID, invitee.User.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, users_enums.ProjectRoleViewer, member.Role)
}

func Test_ListInvitations_ReturnsPendingForOwnEmail(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()
	invitee := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("Inbox Project", owner, router)
	createTestInvitation(t, owner, project.ID, invitee.User.Email, users_enums.ProjectRoleMember)

	var response ListInvitationsResponseDTO
	test_utils.MakeGetRequestAndUnmarshal(
		t,
		router,
		"/invitations",
		"Bearer "+invitee.Token,
		http.StatusOK,
		&response,
	)

	require.Len(t, response.Invitations, 1)
	assert.Equal(t, project.ID, response.Invitations[0].ProjectID)
}

func Test_DuplicatePendingInvitation_IsRejected(t *testing.T) {
	router := createInvitationTestRouter()
	owner := users_testing.CreateTestUser()

	project := projects_testing.CreateTestProject("No Spam", owner, router)

	projectModel, err := projects_services.GetProjectService().GetProjectByID(project.ID)
	require.NoError(t, err)

	inviter, err := users_services.GetUserService().GetUserByID(owner.User.ID)
	require.NoError(t, err)

	email := fmt.Sprintf("pending-%s@test.com", uuid.New().String()[:8])

	_, err = GetInvitationService().CreateInvitation(projectModel, email, users_enums.ProjectRoleMember, inviter)
	require.NoError(t, err)

	_, err = GetInvitationService().CreateInvitation(projectModel, email, users_enums.ProjectRoleMember, inviter)
	assert.ErrorIs(t, err, ErrDuplicateInvitation)
}

func Test_SignUp_AutoAcceptsPendingInvitations(t *testing.T) {
	router := createInvitationTestRouter()
	audit_logs.SetupDependencies()

	owner := users_testing.CreateTestUser()
	secondOwner := users_testing.CreateTestUser()

	first := projects_testing.CreateTestProject("First Team", owner, router)
	second := projects_testing.CreateTestProject("Second Team", secondOwner, router)

	email := fmt.Sprintf("newcomer-%s@test.com", uuid.New().String()[:8])
	firstInvitation := createTestInvitation(t, owner, first.ID, email, users_enums.ProjectRoleMember)
	secondInvitation := createTestInvitation(t, secondOwner, second.ID, email, users_enums.ProjectRoleViewer)

	response, err := users_services.GetUserService().SignUp(&users_dto.SignUpRequestDTO{
		Email:    email,
		Password: "password123",
		Name:     "Newcomer",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, response.InvitationsAccepted)

	assertMembership(t, first.ID, response.User.ID, users_enums.ProjectRoleMember)
	assertMembership(t, second.ID, response.User.ID, users_enums.ProjectRoleViewer)

	// both invitations left the pending set together
	remaining, err := (&InvitationRepository{}).GetPendingInvitationsByEmail(email)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assertInvitationAccepted(t, firstInvitation.Token)
	assertInvitationAccepted(t, secondInvitation.Token)
}

func assertInvitationAccepted(t *testing.T, token string) {
	t.Helper()

	invitation, err := (&InvitationRepository{}).GetInvitationByToken(token)
	require.NoError(t, err)
	require.NotNil(t, invitation)
	assert.Equal(t, InvitationStatusAccepted, invitation.Status)
}

func assertMembership(t *testing.T, projectID, userID uuid.UUID, role users_enums.ProjectRole) {
	t.Helper()

	member, err := projects_services.GetMemberRepository().GetMember(projectID, userID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, role, member.Role)
}
