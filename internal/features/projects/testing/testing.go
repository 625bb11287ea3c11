package projects_testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bugtrail/internal/features/audit_logs"
	projects_dto "bugtrail/internal/features/projects/dto"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	users_dto "bugtrail/internal/features/users/dto"
	users_enums "bugtrail/internal/features/users/enums"
	users_middleware "bugtrail/internal/features/users/middleware"
	users_services "bugtrail/internal/features/users/services"
	test_utils "bugtrail/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTestRouter builds a router with the same middleware tiers as
// production. Protected routes sit behind AuthMiddleware; controllers
// that also implement PublicControllerInterface get their public
// routes registered behind OptionalAuthMiddleware.
func CreateTestRouter(controllers ...ControllerInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	userService := users_services.GetUserService()

	optional := router.Group("").Use(users_middleware.OptionalAuthMiddleware(userService))
	protected := router.Group("").Use(users_middleware.AuthMiddleware(userService))

	optionalGroup, _ := optional.(*gin.RouterGroup)
	protectedGroup, _ := protected.(*gin.RouterGroup)

	for _, controller := range controllers {
		if public, ok := controller.(PublicControllerInterface); ok {
			public.RegisterPublicRoutes(optionalGroup)
		}

		controller.RegisterRoutes(protectedGroup)
	}

	audit_logs.SetupDependencies()

	return router
}

func CreateTestProject(
	name string,
	owner *users_dto.SignInResponseDTO,
	router *gin.Engine,
) *projects_dto.ProjectResponseDTO {
	return createTestProject(name, false, owner, router)
}

func CreateTestPublicProject(
	name string,
	owner *users_dto.SignInResponseDTO,
	router *gin.Engine,
) *projects_dto.ProjectResponseDTO {
	return createTestProject(name, true, owner, router)
}

func createTestProject(
	name string,
	isPublic bool,
	owner *users_dto.SignInResponseDTO,
	router *gin.Engine,
) *projects_dto.ProjectResponseDTO {
	request := projects_dto.CreateProjectRequestDTO{
		Name:     name,
		IsPublic: isPublic,
	}

	w := test_utils.MakeAPIRequest(router, "POST", "/projects", "Bearer "+owner.Token, request)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("failed to create project: status %d, body %s", w.Code, w.Body.String()))
	}

	var response projects_dto.ProjectResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		panic(err)
	}

	return &response
}

// AddMemberDirect inserts a membership row without going through the
// members API. Tests that exercise the API itself should call the
// endpoint instead.
func AddMemberDirect(projectID, userID uuid.UUID, role users_enums.ProjectRole) {
	memberRepository := &projects_repositories.MemberRepository{}

	err := memberRepository.CreateMember(&projects_models.ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		panic(err)
	}
}
