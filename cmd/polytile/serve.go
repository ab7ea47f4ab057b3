package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/polytile/internal/db"
	"github.com/banshee-data/polytile/internal/httputil"
)

const serveUsage = "polytile serve [-db file] [-listen addr]"

// runsAPI serves the run registry as JSON.
type runsAPI struct {
	store *db.RunStore
}

func (api *runsAPI) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /runs", api.handleList)
	mux.HandleFunc("GET /runs/{id}", api.handleGet)
}

func (api *runsAPI) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryLimit(r, 50, 1000)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	runs, err := api.store.List(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	if runs == nil {
		runs = []*db.Run{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (api *runsAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	run, err := api.store.Get(r.PathValue("id"))
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, run)
}

// newServeMux wires the JSON API and the admin debug routes for database.
func newServeMux(database *db.DB) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := database.AttachAdminRoutes(mux); err != nil {
		return nil, err
	}
	api := &runsAPI{store: db.NewRunStore(database)}
	api.register(mux)
	return mux, nil
}

func (a *app) handleServe(args []string) int {
	fs := a.newFlagSet("serve")
	dbPath := fs.String("db", defaultDBPath, "SQLite run registry")
	listen := fs.String("listen", ":8080", "HTTP listen address")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		return a.usageError(serveUsage, "unexpected arguments")
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		return a.fail("%v", err)
	}
	defer database.Close()

	mux, err := newServeMux(database)
	if err != nil {
		return a.fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, &http.Server{Addr: *listen, Handler: mux}); err != nil {
		return a.fail("%v", err)
	}
	return exitOK
}

// serve runs server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("serving run registry on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	return nil
}
