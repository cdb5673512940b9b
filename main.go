package main

import (
	"errors"
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"newsroom/admin"
	"newsroom/blocks"
	"newsroom/cache"
	"newsroom/common"
	"newsroom/content"
	"newsroom/database"
	"newsroom/pages"
	"newsroom/site"
)

func main() {
	root := &cobra.Command{
		Use:           "newsroom",
		Short:         "Articles and news section of the site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), createEditorCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// openDb loads the config, connects and migrates.
func openDb() (*common.Config, *gorm.DB, error) {
	cfg, err := common.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := common.ConnectDb(cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve pages, the sitemap and the editing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDb()
			if err != nil {
				return err
			}
			if cfg.Session.Secret == "" {
				return errors.New("SESSION_SECRET environment variable not set")
			}

			router := gin.Default()

			store := cookie.NewStore([]byte(cfg.Session.Secret))
			store.Options(sessions.Options{
				Path:     "/admin",
				MaxAge:   86400 * 7,
				HttpOnly: true,
				Secure:   false,
			})
			router.Use(sessions.Sessions("newsroom-session", store))

			contentStore := content.NewStore(db)
			pageCache := cache.NewStore(cfg.Cache.Dir, cfg.Cache.MaxAge)
			if err := pageCache.ClearExpired(); err != nil {
				log.Printf("[Cache] clear expired: %v", err)
			}

			pagesModule := pages.NewPagesModule(contentStore, blocks.NewRenderer(nil))
			pagesModule.RegisterRoutes(router.Group("/", pageCache.Middleware()))

			adminModule := admin.NewAdminModule(db, contentStore, pageCache)
			adminModule.RegisterRoutes(router)

			siteModule := site.NewSiteModule(contentStore, cfg.Site.Domain)
			siteModule.RegisterRoutes(router)

			router.GET("/metrics", common.MetricsHandler())

			log.Printf("Starting server on port %s...", cfg.Server.Port)
			return router.Run(":" + cfg.Server.Port)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, err := openDb()
			return err
		},
	}
}

func createEditorCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-editor",
		Short: "Create an account for the editing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("EDITOR_PASSWORD")
			}
			_, db, err := openDb()
			if err != nil {
				return err
			}
			_, err = admin.CreateEditor(db, email, password)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "editor email")
	cmd.Flags().StringVar(&password, "password", "", "editor password (defaults to $EDITOR_PASSWORD)")
	cmd.MarkFlagRequired("email")
	return cmd
}
