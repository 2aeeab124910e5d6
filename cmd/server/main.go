package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"chronoscape.ai/internal/content"
	"chronoscape.ai/internal/persistence/journal"
	persistlog "chronoscape.ai/internal/persistence/log"
	"chronoscape.ai/internal/sim/era"
	"chronoscape.ai/internal/sim/scene"
	"chronoscape.ai/internal/sim/tuning"
	"chronoscape.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		sceneID    = flag.String("scene", "scene_1", "scene id")
		seed       = flag.Int64("seed", 1337, "scene seed (placement sampling and effect pattern)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		erasPath   = flag.String("eras", "", "path to eras.yaml (default: <configs>/eras.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite travel journal")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}

	ep := strings.TrimSpace(*erasPath)
	if ep == "" {
		ep = filepath.Join(*configDir, "eras.yaml")
	}
	cats, err := era.Load(ep)
	if err != nil {
		logger.Fatalf("load eras: %v", err)
	}
	logger.Printf("loaded %d eras (digest %.12s)", len(cats.Eras), cats.Digest)

	sceneDir := filepath.Join(*dataDir, "scenes", *sceneID)
	_ = os.MkdirAll(sceneDir, 0o755)

	travelLog := persistlog.NewTravelLogger(sceneDir)
	defer travelLog.Close()

	recorders := []scene.Recorder{travelLog}
	var db *journal.SQLiteJournal
	if !*disableDB {
		db, err = journal.Open(filepath.Join(sceneDir, "journal.db"))
		if err != nil {
			logger.Fatalf("open journal: %v", err)
		}
		defer db.Close()
		recorders = append(recorders, db)
	}

	cfg := scene.ConfigFromTuning(tune, *sceneID, *seed)
	sc := scene.New(cfg, cats, content.CatalogLoader{Cats: cats}, logger, recorders...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := sc.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Printf("scene loop: %v", err)
		}
	}()

	wsSrv := ws.NewServer(sc, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", wsSrv.Handler())
	mux.HandleFunc("/v1/status", func(rw http.ResponseWriter, r *http.Request) {
		stCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		st, err := sc.RequestStatus(stCtx)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(st)
	})
	if db != nil {
		mux.HandleFunc("/v1/sessions", func(rw http.ResponseWriter, r *http.Request) {
			qCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			recs, err := db.Sessions(qCtx, *sceneID, 50)
			if err != nil {
				http.Error(rw, err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(recs)
		})
	}

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("scene %s listening on %s (tick %d Hz, seed %d)", *sceneID, *addr, cfg.TickRateHz, *seed)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("http: %v", err)
	}
}
