package projects_services

import (
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

// ComputePermissionLevel is the single authorization rule for the whole
// system. Ownership wins, then the explicit membership role, then the
// public-visibility fallback. userID is nil for anonymous callers.
func ComputePermissionLevel(
	userID *uuid.UUID,
	project *projects_models.Project,
	memberRole *users_enums.ProjectRole,
) users_enums.PermissionLevel {
	if userID != nil && *userID == project.OwnerID {
		return users_enums.PermissionOwner
	}

	if memberRole != nil {
		return memberRole.Level()
	}

	if project.IsPublic {
		return users_enums.PermissionRead
	}

	return users_enums.PermissionNone
}

// AccessService resolves a caller's effective permission level for a
// project by loading the membership row and applying
// ComputePermissionLevel.
type AccessService struct {
	memberRepository *projects_repositories.MemberRepository
}

func NewAccessService(memberRepository *projects_repositories.MemberRepository) *AccessService {
	return &AccessService{memberRepository: memberRepository}
}

// PermissionLevel accepts a nil user for anonymous callers.
func (s *AccessService) PermissionLevel(
	user *users_models.User,
	project *projects_models.Project,
) (users_enums.PermissionLevel, error) {
	if user == nil {
		return ComputePermissionLevel(nil, project, nil), nil
	}

	if user.ID == project.OwnerID {
		return users_enums.PermissionOwner, nil
	}

	role, err := s.memberRepository.GetMemberRole(project.ID, user.ID)
	if err != nil {
		return users_enums.PermissionNone, err
	}

	return ComputePermissionLevel(&user.ID, project, role), nil
}
