package bootstrap

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/tracklight-app/tracklight-backend/internal/api/http"
	"github.com/tracklight-app/tracklight-backend/internal/auth/middleware"
	invhttp "github.com/tracklight-app/tracklight-backend/internal/invitations/http"
	invrepo "github.com/tracklight-app/tracklight-backend/internal/invitations/repository"
	invservice "github.com/tracklight-app/tracklight-backend/internal/invitations/service"
	projhttp "github.com/tracklight-app/tracklight-backend/internal/projects/http"
	projrepo "github.com/tracklight-app/tracklight-backend/internal/projects/repository"
	projservice "github.com/tracklight-app/tracklight-backend/internal/projects/service"
	"github.com/tracklight-app/tracklight-backend/internal/store"
	userhttp "github.com/tracklight-app/tracklight-backend/internal/users/http"
	userrepo "github.com/tracklight-app/tracklight-backend/internal/users/repository"
	userservice "github.com/tracklight-app/tracklight-backend/internal/users/service"
)

type Deps struct {
	ServiceName string
	Version     string
	Clients     *store.Clients
	Redis       *redis.Client
}

// App is the wired application: the HTTP surface plus the reconciler the
// scheduler drives.
type App struct {
	Router     *gin.Engine
	Reconciler *invservice.ReconcileService
}

// Build wires repositories, services and handlers into a runnable app. ctx
// bounds the lifetime of the background team watchers.
func Build(ctx context.Context, dep Deps) *App {
	fs := dep.Clients.Firestore

	userRepo := userrepo.NewUserRepository(fs)
	projectRepo := projrepo.NewProjectRepository(fs)
	sessionRepo := projrepo.NewSessionRepository(fs)
	teamCache := projrepo.NewTeamCache(dep.Redis)
	invRepo := invrepo.NewInvitationRepository(fs)
	pendingRepo := invrepo.NewPendingUserRepository(fs)

	membership := projservice.NewMembershipService(projectRepo, userRepo)
	reconciler := invservice.NewReconcileService(invRepo, pendingRepo, userRepo, membership)
	userSvc := userservice.NewUserService(userRepo, reconciler)
	projectSvc := projservice.NewProjectService(projectRepo, userRepo)
	teamSvc := projservice.NewTeamService(projectRepo, userRepo, sessionRepo, invRepo)
	watchers := projservice.NewWatcherManager(ctx, projservice.NewTeamWatcher(teamSvc, invRepo, teamCache))
	invSvc := invservice.NewInvitationService(invRepo, pendingRepo, projectRepo, userRepo, membership)

	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, fs, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(dep.Clients.Auth))

	userHandler := userhttp.NewHandler(userSvc)
	userHandler.Register(api.Group("/users"))

	invHandler := invhttp.NewHandler(invSvc)
	invHandler.Register(api.Group("/invitations"))

	projectsGroup := api.Group("/projects")
	projhttp.NewHandler(projectSvc, teamSvc, watchers, teamCache).Register(projectsGroup)
	invHandler.RegisterProjectSubroutes(projectsGroup)

	return &App{Router: r, Reconciler: reconciler}
}
