package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/procdoc/sopgov/internal/cache"
	"github.com/procdoc/sopgov/internal/compress"
	"github.com/procdoc/sopgov/internal/config"
	"github.com/procdoc/sopgov/internal/generate"
	"github.com/procdoc/sopgov/internal/jobs"
	"github.com/procdoc/sopgov/internal/ledger"
	"github.com/procdoc/sopgov/internal/queue"
	"github.com/procdoc/sopgov/internal/service"
	"github.com/procdoc/sopgov/internal/store"
	"github.com/procdoc/sopgov/internal/template"
	"github.com/procdoc/sopgov/internal/workflow"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Start builds the full service stack from cfg and serves the HTTP API
// until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	db := config.GetDB(cfg)

	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		return err
	}

	codec, err := compress.ByName(cfg.Compression)
	if err != nil {
		return err
	}

	snapshots := cache.SnapshotCache(cache.NewNop())
	if cfg.RedisAddr != "" {
		snapshots = cache.NewRedis(cfg.RedisAddr)
	}

	audit := queue.AuditQueue(queue.NewNop())
	if cfg.KafkaBrokers != "" {
		kafka, err := queue.NewKafka(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		audit = kafka
	}
	defer audit.Close()

	led := ledger.New(st, codec, cfg.Compression)
	engine := workflow.NewEngine(st, led, snapshots, audit, codec, cfg.Compression)
	router := generate.NewRouter(generate.WithTimeout(cfg.GenerateTimeout))
	docs := service.NewDocumentService(engine, led, st, router, template.NewLibrary(), snapshots)

	background := []jobs.CronJob{
		jobs.NewArchiveCleaner(st, cfg.ArchiveRetention, cfg.ArchiveCleanSchedule),
	}
	if cfg.RedisAddr != "" {
		background = append(background, jobs.NewCacheWarmer(st, snapshots, "@hourly"))
	}

	executor := jobs.NewTaskExecutor(background...)
	executor.Run()
	defer executor.Stop()

	return Serve(cfg.HTTPPort, docs)
}

// Serve runs the HTTP API on the given port with the provided service.
func Serve(port string, docs *service.DocumentService) error {
	l, err := net.Listen("tcp", fmt.Sprintf(":%v", port))
	if err != nil {
		return err
	}

	rest := &http.Server{
		Handler: cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(withRequestTime(NewRouter(docs))),
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("starting http server at: http://localhost:%v", port)
		if err := rest.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err = <-serveErr:
		return err
	case <-sigs:
		logrus.Infof("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return rest.Shutdown(ctx)
}

func withRequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.Infof("request time: %v %v: %v", r.Method, r.URL.Path, time.Since(start))
	})
}
