package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/account"
	googleauth "cvbuilder-backend/internal/auth"
	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/documents"
	"cvbuilder-backend/internal/enhance"
	"cvbuilder-backend/internal/exports"
	"cvbuilder-backend/internal/queue"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/server"
	"cvbuilder-backend/internal/shared/storage/db"
	"cvbuilder-backend/internal/shared/storage/object"
	localstore "cvbuilder-backend/internal/shared/storage/object/local"
	s3store "cvbuilder-backend/internal/shared/storage/object/s3"
	"cvbuilder-backend/internal/usage"
	"cvbuilder-backend/internal/users"
	"cvbuilder-backend/internal/wizard"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo    documents.Repo
	ExportsRepo      exports.Repo
	UsersRepo        users.Repo
	DocumentsService *documents.Service
	ImportService    *documents.ImportService
	ExportsService   *exports.Service
	UsersService     *users.Service
	UsageService     *usage.Service
	WizardSessions   *wizard.Manager

	DocumentsHandler *documents.Handler
	WizardHandler    *wizard.Handler
	ExportsHandler   *exports.Handler
	EnhanceHandler   *enhance.Handler
	UsersHandler     *users.Handler
	AccountHandler   *account.Handler
	UsageHandler     *usage.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		WizardHandler:    app.WizardHandler,
		ExportsHandler:   app.ExportsHandler,
		EnhanceHandler:   app.EnhanceHandler,
		UsersHandler:     app.UsersHandler,
		AccountHandler:   app.AccountHandler,
		UsageHandler:     app.UsageHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("CVB_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildRenderer(cfg config.Config) (exports.Renderer, error) {
	if strings.TrimSpace(cfg.RenderServiceURL) != "" {
		return exports.NewLaTeXClient(cfg.RenderServiceURL, 60*time.Second)
	}
	return exports.NewChromeRenderer()
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var exportRepo exports.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		exportRepo = &exports.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		exportRepo = exports.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	docSvc := &documents.Service{Repo: docRepo}
	importSvc := &documents.ImportService{Svc: docSvc, Store: app.Store}

	renderer, err := buildRenderer(app.Config)
	if err != nil {
		return err
	}
	exportSvc := &exports.Service{
		Repo:         exportRepo,
		Docs:         docSvc,
		Store:        app.Store,
		Renderer:     renderer,
		DocxRenderer: exports.NewDocxRenderer(),
		Queue:        app.Queue,
	}

	enhanceClient := enhance.Client(enhance.PlaceholderClient{})
	if app.Config.EnhanceProvider == "openai" {
		openaiClient, err := enhance.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), app.Config.EnhanceModel)
		if err != nil {
			return err
		}
		enhanceClient = openaiClient
	}

	sessions := wizard.NewManager()
	docAdapter := documentAdapter{svc: docSvc}
	wizardHandler := wizard.NewHandler(sessions, docAdapter, docAdapter, wizard.Options{})

	userSvc := users.NewService(userRepo)

	usageSvc := usage.NewService()
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	}

	app.DocumentsRepo = docRepo
	app.ExportsRepo = exportRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.ImportService = importSvc
	app.ExportsService = exportSvc
	app.UsersService = userSvc
	app.WizardSessions = sessions
	app.DocumentsHandler = documents.NewHandler(docSvc, importSvc)
	app.WizardHandler = wizardHandler
	app.ExportsHandler = exports.NewHandler(exportSvc)
	app.UsageService = usageSvc
	enhanceHandler := enhance.NewHandler(enhanceClient)
	enhanceHandler.Quota = usageSvc
	app.EnhanceHandler = enhanceHandler
	app.UsersHandler = users.NewHandler(userSvc)
	app.AccountHandler = account.NewHandler(account.NewService(docRepo, exportRepo))
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
	app.GoogleAuth.Users = userSvc

	return nil
}

// documentAdapter bridges the documents service to the wizard's narrower
// interfaces, translating sentinel errors at the boundary.
type documentAdapter struct {
	svc *documents.Service
}

func (a documentAdapter) Get(ctx context.Context, userID, documentID string) (cv.Document, error) {
	doc, err := a.svc.Get(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return cv.Document{}, wizard.ErrDocumentNotFound
		}
		return cv.Document{}, err
	}
	return doc, nil
}

func (a documentAdapter) UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload) (cv.Document, error) {
	return a.svc.UpdateSection(ctx, userID, documentID, payload)
}

var _ wizard.DocumentSource = documentAdapter{}
var _ wizard.SectionPersister = documentAdapter{}
