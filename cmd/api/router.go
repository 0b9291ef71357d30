package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamdesk/streamdesk/internal/config"
	"github.com/streamdesk/streamdesk/internal/handlers"
	"github.com/streamdesk/streamdesk/internal/media"
	"github.com/streamdesk/streamdesk/internal/middleware"
	"github.com/streamdesk/streamdesk/internal/models"
	"github.com/streamdesk/streamdesk/internal/repo"
	"github.com/streamdesk/streamdesk/internal/undo"
)

// newRouter builds the full HTTP surface: public health/metrics/auth routes
// and the JWT-gated admin API.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	oplogRepo := repo.NewOplogRepo(database)
	userRepo := repo.NewUserRepo(database)

	videoH := &handlers.VideoHandler{
		Repo:   repo.NewVideoRepo(database),
		Oplog:  oplogRepo,
		Prober: &media.FFProbe{Path: cfg.FFProbePath},
	}
	userH := &handlers.UserHandler{Repo: userRepo, Oplog: oplogRepo}
	categoryH := &handlers.CategoryHandler{Repo: repo.NewCategoryRepo(database), Oplog: oplogRepo}
	sidebarH := &handlers.SidebarHandler{Repo: repo.NewSidebarRepo(database), Oplog: oplogRepo}
	articleH := &handlers.ArticleHandler{Repo: repo.NewArticleRepo(database), Oplog: oplogRepo}
	undoH := &handlers.UndoHandler{Oplog: oplogRepo, Engine: undo.NewEngine(database)}
	backupH := &handlers.BackupHandler{Repo: repo.NewBackupRepo(database)}
	m3uH := &handlers.M3UHandler{}
	authH := &handlers.AuthHandler{
		UserRepo:    userRepo,
		Secret:      []byte(cfg.JWTSecret),
		ExpireHours: cfg.JWTExpireHours,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := database.PingContext(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/login", authH.Login)
		r.Post("/register", authH.Register)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		r.Get("/m3u", m3uH.ParsePlaylist)
		r.Post("/m3u", m3uH.ParsePlaylist)

		r.Route("/admin", func(r chi.Router) {
			r.Route("/videos", func(r chi.Router) {
				r.Get("/", videoH.ListVideos)
				r.Post("/", videoH.CreateVideo)
				r.Put("/", videoH.UpdateVideo)
				r.Delete("/", videoH.DeleteVideo)
			})

			// User management is restricted to admins; everything else is
			// open to any authenticated staff account.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/", userH.ListUsers)
				r.Post("/", userH.CreateUser)
				r.Put("/", userH.UpdateUser)
				r.Delete("/", userH.DeleteUser)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryH.ListCategories)
				r.Post("/", categoryH.CreateCategory)
				r.Put("/", categoryH.UpdateCategory)
				r.Delete("/", categoryH.DeleteCategory)
				r.Post("/reorder", categoryH.ReorderCategories)
			})

			r.Route("/sidebar", func(r chi.Router) {
				r.Get("/", sidebarH.ListItems)
				r.Post("/", sidebarH.ReorderItems)
				r.Route("/items", func(r chi.Router) {
					r.Post("/", sidebarH.CreateItem)
					r.Put("/", sidebarH.UpdateItem)
					r.Delete("/", sidebarH.DeleteItem)
				})
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", articleH.ListArticles)
				r.Post("/", articleH.CreateArticle)
				r.Put("/", articleH.UpdateArticle)
				r.Delete("/", articleH.DeleteArticle)
			})

			r.Route("/undo", func(r chi.Router) {
				r.Get("/", undoH.ListOperations)
				r.Post("/", undoH.ApplyUndo)
			})

			r.Route("/backup", func(r chi.Router) {
				r.Get("/", backupH.ListBackups)
				r.Post("/", backupH.CreateBackup)
			})
		})
	})

	return r
}
