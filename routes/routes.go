package routes

import (
	"log"
	"os"

	controller "stackflow/controllers"
	"stackflow/middleware"
	"stackflow/models"
	"stackflow/services"
	"stackflow/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Google OAuth routes
	auth.Get("/google", controller.GoogleOAuth)
	auth.Get("/google/callback", controller.GoogleOAuthCallback)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	resolver := services.NewMembershipResolver(services.NewGormMembershipStore(db))

	tenantController := controller.NewTenantController(db, log.New(os.Stdout, "TENANT: ", log.LstdFlags), resolver)
	projectController := controller.NewProjectController(db, log.New(os.Stdout, "PROJECT: ", log.LstdFlags), resolver)
	memberController := controller.NewMemberController(db, log.New(os.Stdout, "MEMBER: ", log.LstdFlags), resolver)
	sectionController := controller.NewSectionController(db, log.New(os.Stdout, "SECTION: ", log.LstdFlags), resolver)
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags), resolver)
	commentController := controller.NewCommentController(db, log.New(os.Stdout, "COMMENT: ", log.LstdFlags))
	columnController := controller.NewColumnController(db, log.New(os.Stdout, "COLUMN: ", log.LstdFlags))
	invitationController := controller.NewInvitationController(db, log.New(os.Stdout, "INVITE: ", log.LstdFlags), resolver)
	onboardingController := controller.NewOnboardingController(db, log.New(os.Stdout, "ONBOARD: ", log.LstdFlags))

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Onboarding routes
	onboarding := api.Group("/onboarding")
	onboarding.Get("/", onboardingController.GetOnboarding)
	onboarding.Post("/step", onboardingController.AdvanceOnboarding)
	onboarding.Post("/skip", onboardingController.SkipOnboarding)

	// Workspace routes
	tenant := api.Group("/tenants")
	tenant.Post("/", tenantController.CreateTenant)
	tenant.Get("/", tenantController.GetTenants)
	tenant.Get("/:id", middleware.RequireTenantRole(resolver, models.RoleViewer), tenantController.GetTenant)
	tenant.Put("/:id", middleware.RequireTenantRole(resolver, models.RoleAdmin), tenantController.UpdateTenant)

	tenant.Get("/:id/members", middleware.RequireTenantRole(resolver, models.RoleViewer), tenantController.ListTenantMembers)
	tenant.Put("/:id/members/:userID", middleware.RequireTenantRole(resolver, models.RoleAdmin), tenantController.UpdateTenantMemberRole)
	tenant.Delete("/:id/members/:userID", middleware.RequireTenantRole(resolver, models.RoleAdmin), tenantController.RemoveTenantMember)

	// Invitation routes with rate limiting on creation
	tenant.Post("/:id/invitations",
		middleware.RequireTenantRole(resolver, models.RoleAdmin),
		middleware.InviteRateLimiter(),
		invitationController.CreateInvitation)
	tenant.Get("/:id/invitations", middleware.RequireTenantRole(resolver, models.RoleAdmin), invitationController.ListInvitations)
	tenant.Delete("/:id/invitations/:invitationID", middleware.RequireTenantRole(resolver, models.RoleAdmin), invitationController.RevokeInvitation)
	api.Post("/invitations/accept", invitationController.AcceptInvitation)

	// Projects live under their tenant for creation and listing
	tenant.Post("/:id/projects", middleware.RequireTenantRole(resolver, models.RoleMember), projectController.CreateProject)
	tenant.Get("/:id/projects", projectController.GetProjects)

	// Trash is tenant scoped: a trashed project is invisible to the
	// project-level guard.
	tenant.Get("/:id/trash", middleware.RequireTenantRole(resolver, models.RoleMember), projectController.GetTrash)
	tenant.Post("/:id/trash/:projectID/restore", middleware.RequireTenantRole(resolver, models.RoleOwner), projectController.RestoreProject)

	// Project routes
	project := api.Group("/projects")
	project.Get("/:id", middleware.RequireProjectRole(resolver, models.RoleViewer), projectController.GetProject)
	project.Put("/:id", middleware.RequireProjectRole(resolver, models.RoleAdmin), projectController.UpdateProject)
	project.Delete("/:id", middleware.RequireProjectRole(resolver, models.RoleOwner), projectController.TrashProject)
	project.Post("/:id/duplicate", middleware.RequireProjectRole(resolver, models.RoleAdmin), projectController.DuplicateProject)
	project.Get("/:id/activity", middleware.RequireProjectRole(resolver, models.RoleViewer), projectController.GetActivity)

	// Project member routes
	project.Get("/:id/members", middleware.RequireProjectRole(resolver, models.RoleViewer), memberController.ListProjectMembers)
	project.Post("/:id/members", middleware.RequireProjectRole(resolver, models.RoleAdmin), memberController.AddProjectMember)
	project.Put("/:id/members/:userID", middleware.RequireProjectRole(resolver, models.RoleAdmin), memberController.UpdateProjectMemberRole)
	project.Delete("/:id/members/:userID", middleware.RequireProjectRole(resolver, models.RoleViewer), memberController.RemoveProjectMember)

	// Section routes
	project.Post("/:id/sections", middleware.RequireProjectRole(resolver, models.RoleMember), sectionController.CreateSection)
	project.Put("/:id/sections/reorder", middleware.RequireProjectRole(resolver, models.RoleMember), sectionController.ReorderSections)
	project.Put("/:id/sections/:sectionID", middleware.RequireProjectRole(resolver, models.RoleMember), sectionController.UpdateSection)
	project.Put("/:id/sections/:sectionID/move", middleware.RequireProjectRole(resolver, models.RoleMember), sectionController.MoveSection)
	project.Delete("/:id/sections/:sectionID", middleware.RequireProjectRole(resolver, models.RoleMember), sectionController.DeleteSection)

	// Task routes
	project.Get("/:id/tasks", middleware.RequireProjectRole(resolver, models.RoleViewer), taskController.GetTasks)
	project.Post("/:id/tasks", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.CreateTask)
	project.Get("/:id/tasks/:taskID", middleware.RequireProjectRole(resolver, models.RoleViewer), taskController.GetTask)
	project.Put("/:id/tasks/:taskID", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.UpdateTask)
	project.Delete("/:id/tasks/:taskID", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.DeleteTask)
	project.Post("/:id/tasks/:taskID/subtasks", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.CreateSubtask)
	project.Post("/:id/tasks/:taskID/duplicate", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.DuplicateTask)
	project.Put("/:id/tasks/:taskID/move", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.MoveTask)
	project.Post("/:id/tasks/:taskID/complete", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.CompleteTask)
	project.Post("/:id/tasks/:taskID/uncomplete", middleware.RequireProjectRole(resolver, models.RoleMember), taskController.UncompleteTask)

	// Comment routes
	project.Get("/:id/tasks/:taskID/comments", middleware.RequireProjectRole(resolver, models.RoleViewer), commentController.ListComments)
	project.Post("/:id/tasks/:taskID/comments", middleware.RequireProjectRole(resolver, models.RoleMember), commentController.CreateComment)
	project.Delete("/:id/comments/:commentID", middleware.RequireProjectRole(resolver, models.RoleMember), commentController.DeleteComment)

	// Custom column routes
	project.Get("/:id/columns", middleware.RequireProjectRole(resolver, models.RoleViewer), columnController.ListColumns)
	project.Post("/:id/columns", middleware.RequireProjectRole(resolver, models.RoleAdmin), columnController.CreateColumn)
	project.Put("/:id/columns/:columnID", middleware.RequireProjectRole(resolver, models.RoleAdmin), columnController.UpdateColumn)
	project.Delete("/:id/columns/:columnID", middleware.RequireProjectRole(resolver, models.RoleAdmin), columnController.DeleteColumn)
	project.Put("/:id/tasks/:taskID/columns/:columnID", middleware.RequireProjectRole(resolver, models.RoleMember), columnController.SetTaskValue)

	// WebSocket route for live board updates; access is checked before the
	// upgrade, then the project id is handed to the socket handler.
	app.Get("/api/v1/projects/:id/ws",
		middleware.Protected(),
		middleware.RequireProjectRole(resolver, models.RoleViewer),
		func(c *fiber.Ctx) error {
			c.Locals("wsProjectID", utils.ParseUint(c.Params("id")))
			return websocket.New(controller.HandleBoardWS)(c)
		})

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
