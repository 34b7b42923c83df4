package app

import (
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/textilua/promoshop/internal/adapters/httpserver"
	"github.com/textilua/promoshop/internal/adapters/notify"
	"github.com/textilua/promoshop/internal/adapters/repo/localfs"
	"github.com/textilua/promoshop/internal/adapters/repo/postgres"
	"github.com/textilua/promoshop/internal/adapters/scraper"
	"github.com/textilua/promoshop/internal/compose"
	"github.com/textilua/promoshop/internal/domain"
	"github.com/textilua/promoshop/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	CatalogUC *usecase.CatalogUC
	DesignUC  *usecase.DesignUC
	OrderUC   *usecase.OrderUC
	Fetcher   compose.Fetcher
	Scraper   *scraper.ImageScraper
	OAuth     *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	queue, err := localfs.New(os.Getenv("FALLBACK_DIR"))
	if err != nil {
		return nil, err
	}

	fetcher := compose.NewHTTPFetcher()

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{DB: db}
	app.CatalogUC = &usecase.CatalogUC{Products: prodRepo}
	app.DesignUC = usecase.NewDesignUC()
	app.OrderUC = &usecase.OrderUC{
		Orders:   orderRepo,
		Queue:    queue,
		Notifier: notify.NewMailerFromEnv(),
		Exporter: compose.NewExporter(fetcher),
	}
	app.Fetcher = fetcher
	app.Scraper = scraper.NewImageScraper()
	app.OAuth = oauthCfg
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CatalogUC, a.DesignUC, a.OrderUC, a.Fetcher, a.Scraper, a.OAuth)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Variant{}, &domain.ImageRecord{}, &domain.Order{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variants_product_id ON variants (product_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_image_records_product_id ON image_records (product_id)").Error
	_ = a.DB.Exec("ALTER TABLE products ADD COLUMN IF NOT EXISTS active BOOLEAN DEFAULT true").Error
	_ = a.DB.Exec("UPDATE products SET active = true WHERE active IS NULL").Error

	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seedProducts(a.DB)
	}
	return nil
}

func seedProducts(db *gorm.DB) {
	prods := []domain.Product{
		{ID: uuid.New(), Slug: "futbolka-classic", Title: "Футболка Classic", BasePrice: 320, CategoryID: "apparel", Active: true},
		{ID: uuid.New(), Slug: "hudi-premium", Title: "Худі Premium", BasePrice: 890, CategoryID: "apparel", Active: true},
		{ID: uuid.New(), Slug: "kepka-snapback", Title: "Кепка Snapback", BasePrice: 260, CategoryID: "headwear", Active: true},
		{ID: uuid.New(), Slug: "ecosumka-bavovna", Title: "Екосумка бавовняна", BasePrice: 140, CategoryID: "bags", Active: true},
		{ID: uuid.New(), Slug: "gornyatko-keramika", Title: "Горнятко керамічне", BasePrice: 180, CategoryID: "drinkware", Active: true},
	}
	for i := range prods {
		db.Create(&prods[i])
	}
}
