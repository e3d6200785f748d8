package main

import (
	"BattingNarrativeApi/internal/cache"
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/jsonlog"
	"BattingNarrativeApi/internal/mailer"
	"BattingNarrativeApi/internal/scene"
	"BattingNarrativeApi/internal/validator"
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

type config struct {
	version string
	port    int
	env     string
	data    struct {
		url          string
		file         string
		fetchTimeout time.Duration
	}
	db struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
		seed         bool
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
	cors struct {
		trustedOrigins []string
	}
	redis struct {
		url string
		ttl time.Duration
	}
	presenterKeyHash string
}

type application struct {
	logger       *jsonlog.Logger
	config       config
	models       data.Models
	table        *data.Table
	navigator    *scene.Navigator
	svgCache     svgCache
	mailer       mailer.Mailer
	presenterKey *data.PresenterKey
	wg           sync.WaitGroup
}

func main() {
	var cfg config

	// Server Config
	cfg.version = "1.0.0"
	flag.IntVar(&cfg.port, "port", 8008, "http server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")

	// Data Config
	flag.StringVar(&cfg.data.url, "data-url", data.DefaultDataURL, "Batting CSV URL")
	flag.StringVar(&cfg.data.file, "data-file", "", "Read the batting CSV from a local file")
	flag.DurationVar(&cfg.data.fetchTimeout, "fetch-timeout", 30*time.Second,
		"Batting CSV download timeout")

	// Database Config
	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "DB connection string")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m",
		"PostgreSQL max connection idle time")
	flag.BoolVar(&cfg.db.seed, "db-seed", false,
		"Load the CSV and replace the batting_lines table with its rows")

	// Limiter Config
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	// SMTP Config
	flag.StringVar(&cfg.smtp.host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender",
		"Batting Narrative <no-reply@battingnarrative.dev>", "SMTP sender")

	// CORS Config
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		origins := strings.Fields(val)
		if i := slices.Index(origins, "*"); i != -1 {
			return errors.New("cannot set CORS trusted origin to \"*\" with authorization header" +
				" in cross-origin requests")
		}
		cfg.cors.trustedOrigins = origins
		return nil
	})

	// Redis Config
	flag.StringVar(&cfg.redis.url, "redis-url", "", "Redis URL for the scene SVG cache (disabled if empty)")
	flag.DurationVar(&cfg.redis.ttl, "cache-ttl", cache.DefaultTTL, "Scene SVG cache TTL")

	// Presenter Config
	flag.StringVar(&cfg.presenterKeyHash, "presenter-key-hash", "",
		"bcrypt hash guarding the navigation endpoints (open if empty)")
	hashKey := flag.String("hash-presenter-key", "", "Print the bcrypt hash of a presenter key and exit")

	// Version
	displayVersion := flag.Bool("version", false, "Show API version and immediately exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version: %s\n", cfg.version)
		os.Exit(0)
	}

	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	if *hashKey != "" {
		hash, err := hashPresenterKey(*hashKey)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		fmt.Println(hash)
		os.Exit(0)
	}

	var db *sql.DB
	if cfg.db.dsn != "" {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer db.Close()
		logger.PrintInfo("database connection pool established", nil)
	}

	models := data.NewModels(db)

	table, err := loadTable(cfg, db, models, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger.PrintInfo("batting table loaded", map[string]string{
		"records": fmt.Sprint(table.Len()),
		"years":   fmt.Sprint(len(table.Years())),
	})

	expvar.NewString("version").Set(cfg.version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("records", expvar.Func(func() any {
		return table.Len()
	}))
	if db != nil {
		expvar.Publish("database", expvar.Func(func() any {
			return db.Stats()
		}))
	}
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	app := &application{
		logger: logger,
		config: cfg,
		models: models,
		table:  table,
		mailer: mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password,
			cfg.smtp.sender),
	}

	if cfg.presenterKeyHash != "" {
		app.presenterKey, err = data.PresenterKeyFromHash(cfg.presenterKeyHash)
		if err != nil {
			logger.PrintFatal(fmt.Errorf("presenter key hash: %w", err), nil)
		}
	}

	if cfg.redis.url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.redis.url)
		cancel()
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		defer client.Close()
		app.svgCache = cache.NewRedisCache(client, tableNamespace(cfg.version, table), cfg.redis.ttl)
		logger.PrintInfo("scene cache connected", nil)
	}

	app.navigator = scene.NewNavigator(table, app.sceneSnapshot, logger)

	err = app.serve()
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// loadTable reads the batting rows from PostgreSQL when a database is configured and not
// being seeded, otherwise from the CSV file or URL. The load completes before serving.
func loadTable(cfg config, db *sql.DB, models data.Models, logger *jsonlog.Logger) (*data.Table, error) {
	if db != nil && !cfg.db.seed {
		records, err := models.Records.GetAll()
		if err != nil {
			return nil, fmt.Errorf("loading batting lines: %w", err)
		}
		table := data.NewTable(records)
		if table.Len() == 0 {
			return nil, fmt.Errorf("batting_lines: %w (run with -db-seed)", data.ErrEmptyTable)
		}
		return table, nil
	}

	var (
		table    *data.Table
		warnings []data.LoadWarning
		err      error
	)
	if cfg.data.file != "" {
		table, warnings, err = data.LoadCSVFile(cfg.data.file)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.data.fetchTimeout)
		defer cancel()
		table, warnings, err = data.FetchCSV(ctx, &http.Client{}, cfg.data.url)
	}
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		logger.PrintInfo("csv value coerced", map[string]string{
			"line":   fmt.Sprint(w.Line),
			"column": w.Column,
			"value":  w.Value,
			"result": w.Result,
		})
	}

	if table.Len() == 0 {
		return nil, data.ErrEmptyTable
	}

	if db != nil && cfg.db.seed {
		if err := models.Records.ReplaceAll(table); err != nil {
			return nil, fmt.Errorf("seeding batting lines: %w", err)
		}
		logger.PrintInfo("batting_lines seeded", map[string]string{"records": fmt.Sprint(table.Len())})
	}

	return table, nil
}

func hashPresenterKey(plaintext string) (string, error) {
	v := validator.New()
	data.ValidatePresenterKeyPlaintext(v, plaintext)
	if !v.Valid() {
		return "", fmt.Errorf("presenter key %s", v.Errors["presenter_key"])
	}

	var key data.PresenterKey
	if err := key.Set(plaintext); err != nil {
		return "", err
	}
	return key.Hash(), nil
}

// tableNamespace keys cached drawings to the loaded data.
func tableNamespace(version string, t *data.Table) string {
	years := t.Years()
	if len(years) == 0 {
		return fmt.Sprintf("%s-%d", version, t.Len())
	}
	return fmt.Sprintf("%s-%d-%d-%d", version, t.Len(), years[0], years[len(years)-1])
}
