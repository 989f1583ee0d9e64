package app

import (
	"github.com/tkcmada/sample-todo-psql/internal/cache"
	"github.com/tkcmada/sample-todo-psql/internal/config"
	"github.com/tkcmada/sample-todo-psql/internal/handlers"
	"github.com/tkcmada/sample-todo-psql/internal/repo"
	"github.com/tkcmada/sample-todo-psql/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine. Repositories are
// constructed here once and injected down the stack; the storage
// backend is fixed for the process lifetime by cfg.Store.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	var (
		todoRepo     repo.TodoRepo
		userRepo     repo.UserRepo
		orgChartRepo repo.OrgChartRepo
	)
	if cfg.Store.Driver == config.StoreMemory {
		todoRepo = repo.NewMemoryTodoRepo()
		userRepo = repo.NewMemoryUserRepo()
		orgChartRepo = repo.NewMemoryOrgChartRepo()
	} else {
		todoRepo = repo.NewPGTodoRepo(db)
		userRepo = repo.NewPGUserRepo(db)
		orgChartRepo = repo.NewPGOrgChartRepo(db)
	}

	var todoCache *cache.TodoCache
	if rdb != nil {
		todoCache = cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}

	todoHandler := handlers.NewTodoHandler(service.NewTodoService(todoRepo, todoCache))
	registerTodoRoutes(api, todoHandler)

	userHandler := handlers.NewUserHandler(service.NewUserService(userRepo))
	registerUserRoutes(api, userHandler)

	orgChartHandler := handlers.NewOrgChartHandler(service.NewOrgChartService(orgChartRepo))
	registerOrgChartRoutes(api, orgChartHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Todo Admin API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("/todos", h.GetAll)
	api.POST("/todos", h.Create)
	api.PATCH("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/toggle", h.Toggle)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users", h.GetAll)
	api.GET("/users/:id", h.GetByID)
	api.POST("/users", h.Create)
	api.PATCH("/users/:id", h.Update)
	api.DELETE("/users/:id", h.Delete)
}

func registerOrgChartRoutes(api *gin.RouterGroup, h *handlers.OrgChartHandler) {
	api.GET("/org-chart/pages", h.GetAllPages)
	api.GET("/org-chart/pages/:id", h.GetPageByID)
	api.POST("/org-chart/pages", h.CreatePage)
	api.PATCH("/org-chart/pages/:id", h.UpdatePage)
	api.DELETE("/org-chart/pages/:id", h.DeletePage)
	api.PUT("/org-chart/pages/:id/chart-data", h.SaveChartData)
}
