// Command seed-db prepares a fresh database: it runs migrations, loads the
// product fixture (plain JSON or pgzip-compressed), seeds the SAVE10
// coupon, and creates the initial superadmin account.
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
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/auth"
	"github.com/finexpress/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	InStock     *bool           `json:"inStock"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminUsername string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products fixture (.json or .json.gz)")
	flag.StringVar(&adminUsername, "admin-username", "admin", "initial superadmin username")
	flag.StringVar(&adminEmail, "admin-email", "", "initial superadmin email (or FINEX_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminPassword, "admin-password", "", "initial superadmin password (or FINEX_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("FINEX_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("FINEX_SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminUsername, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminUsername, adminEmail, adminPassword string) error {
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

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if adminEmail != "" && adminPassword != "" {
		if err := seedAdmin(ctx, pool, adminUsername, adminEmail, adminPassword); err != nil {
			return errors.Wrap(err, "seed admin")
		}
	} else {
		slog.Info("skipping admin seed: no email/password provided")
	}

	return nil
}

// readProductsFile loads the fixture, transparently decompressing .gz files.
func readProductsFile(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
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

const upsertProductSQL = `INSERT INTO products (id, name, price, category, image, description, in_stock)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		image = EXCLUDED.image,
		description = EXCLUDED.description,
		in_stock = EXCLUDED.in_stock,
		updated_at = now()`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	products, err := readProductsFile(productsFile)
	if err != nil {
		return err
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		inStock := true
		if p.InStock != nil {
			inStock = *p.InStock
		}

		_, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.Category, p.Image, p.Description, inStock,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const upsertCouponSQL = `INSERT INTO coupons (code, percentage, description)
	VALUES ($1, $2, $3)
	ON CONFLICT (code) DO UPDATE SET
		percentage = EXCLUDED.percentage,
		description = EXCLUDED.description`

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding coupons")

	_, err := pool.Exec(ctx, upsertCouponSQL,
		"SAVE10", decimal.NewFromInt(10), "10% off your order",
	)
	if err != nil {
		return errors.Wrap(err, "upsert coupon SAVE10")
	}

	slog.Info("upserted coupon", slog.String("code", "SAVE10"))
	return nil
}

const insertAdminSQL = `INSERT INTO admins (id, username, email, password_hash, role)
	VALUES ($1, $2, $3, $4, 'superadmin')
	ON CONFLICT (email) DO NOTHING`

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, username, email, password string) error {
	slog.Info("seeding superadmin", slog.String("email", email))

	hash, err := auth.NewBcryptHasher(0).Hash(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	_, err = pool.Exec(ctx, insertAdminSQL,
		uuid.New().String(), username, strings.ToLower(email), hash,
	)
	if err != nil {
		return errors.Wrap(err, "insert admin")
	}

	return nil
}
