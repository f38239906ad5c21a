// Command seed-db applies migrations, loads the product catalog from a JSON
// (or gzip-compressed) file, and creates an initial admin account.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/stylestore/api/internal/auth"
	"github.com/stylestore/api/internal/domain/product"
	"github.com/stylestore/api/internal/domain/user"
	"github.com/stylestore/api/internal/storage/postgres"
)

const seedConcurrency = 8

type productJSON struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Stock         int              `json:"stock"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminName     string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.StringVar(&adminName, "admin-name", "Admin", "name for the initial admin account")
	flag.StringVar(&adminEmail, "admin-email", "", "email for the initial admin account (or SHOP_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the initial admin account (or SHOP_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("SHOP_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("SHOP_SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminName, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminName, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if adminEmail != "" && adminPassword != "" {
		if err := seedAdmin(ctx, postgres.NewUserRepository(pool), adminName, adminEmail, adminPassword); err != nil {
			return errors.Wrap(err, "seed admin")
		}
	} else {
		slog.Info("admin credentials not provided, skipping admin account")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, path string) error {
	slog.Info("reading products file", slog.String("path", path))

	products, err := readProducts(path)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(seedConcurrency)

	for _, in := range products {
		g.Go(func() error {
			p := &product.Product{
				ID:          uuid.New().String(),
				Name:        in.Name,
				Description: in.Description,
				Price:       in.Price,
				Image:       in.Image,
				Category:    in.Category,
				Stock:       in.Stock,
				Sizes:       in.Sizes,
				Colors:      in.Colors,
				IsActive:    true,
			}
			if in.OriginalPrice != nil {
				p.OriginalPrice = *in.OriginalPrice
			}
			if err := repo.Create(ctx, p); err != nil {
				return errors.Wrapf(err, "insert product %q", in.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("products seeded", slog.Int("count", len(products)))
	return nil
}

// readProducts decodes the catalog file, transparently decompressing .gz
// input.
func readProducts(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open products file")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip reader")
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}

func seedAdmin(ctx context.Context, repo *postgres.UserRepository, name, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			slog.Info("admin account already exists", slog.String("email", email))
			return nil
		}
		return err
	}

	slog.Info("admin account created", slog.String("email", email))
	return nil
}
