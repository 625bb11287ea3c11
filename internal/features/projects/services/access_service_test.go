package projects_services

import (
	"testing"

	projects_models "bugtrail/internal/features/projects/models"
	users_enums "bugtrail/internal/features/users/enums"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_ComputePermissionLevel_CoversEveryRelationship(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	privateProject := &projects_models.Project{ID: uuid.New(), OwnerID: ownerID}
	publicProject := &projects_models.Project{ID: uuid.New(), OwnerID: ownerID, IsPublic: true}

	viewer := users_enums.ProjectRoleViewer
	member := users_enums.ProjectRoleMember
	admin := users_enums.ProjectRoleAdmin

	cases := []struct {
		name     string
		userID   *uuid.UUID
		project  *projects_models.Project
		role     *users_enums.ProjectRole
		expected users_enums.PermissionLevel
	}{
		{"owner of private project", &ownerID, privateProject, nil, users_enums.PermissionOwner},
		{"owner outranks own membership row", &ownerID, privateProject, &viewer, users_enums.PermissionOwner},
		{"viewer role", &strangerID, privateProject, &viewer, users_enums.PermissionRead},
		{"member role", &strangerID, privateProject, &member, users_enums.PermissionWrite},
		{"admin role", &strangerID, privateProject, &admin, users_enums.PermissionAdmin},
		{"stranger on private project", &strangerID, privateProject, nil, users_enums.PermissionNone},
		{"stranger on public project", &strangerID, publicProject, nil, users_enums.PermissionRead},
		{"anonymous on public project", nil, publicProject, nil, users_enums.PermissionRead},
		{"anonymous on private project", nil, privateProject, nil, users_enums.PermissionNone},
		{"membership outranks public fallback", &strangerID, publicProject, &member, users_enums.PermissionWrite},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputePermissionLevel(tc.userID, tc.project, tc.role))
		})
	}
}

func Test_PermissionLevel_AtLeast_IsOrdered(t *testing.T) {
	assert.True(t, users_enums.PermissionOwner.AtLeast(users_enums.PermissionAdmin))
	assert.True(t, users_enums.PermissionAdmin.AtLeast(users_enums.PermissionWrite))
	assert.True(t, users_enums.PermissionWrite.AtLeast(users_enums.PermissionWrite))
	assert.False(t, users_enums.PermissionRead.AtLeast(users_enums.PermissionWrite))
	assert.False(t, users_enums.PermissionNone.AtLeast(users_enums.PermissionRead))
}
