package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gantry-data/strukt/internal/api"
	"github.com/gantry-data/strukt/internal/cleanup"
	"github.com/gantry-data/strukt/internal/config"
	"github.com/gantry-data/strukt/internal/db"
	"github.com/gantry-data/strukt/internal/importer"
	"github.com/gantry-data/strukt/internal/model"
	"github.com/gantry-data/strukt/internal/report"
	"github.com/gantry-data/strukt/internal/units"
	"github.com/gantry-data/strukt/internal/version"
)

var (
	nodesPath   = flag.String("nodes", "", "Node CSV file (id,x,y,z)")
	membersPath = flag.String("members", "", "Member CSV file (id,start,end,section), optional")
	jsonPath    = flag.String("json", "", "JSON model file (overrides -nodes/-members)")
	unitFlag    = flag.String("units", "", "Length units of CSV coordinates and -tolerance (default m)")
	tolerance   = flag.Float64("tolerance", 0, "Coincidence tolerance, in -units (default 0.005 m)")
	configPath  = flag.String("config", "", "JSON tuning config file, optional")
	dbPath      = flag.String("db", "strukt.db", "Cleanup run database")
	plotDir     = flag.String("plot-dir", "", "Directory for PNG merge plots, optional")
	listen      = flag.String("listen", "", "Listen address for the report server (empty: run once and exit)")
)

func loadModel(unit string) (*model.Model, error) {
	if *jsonPath != "" {
		f, err := os.Open(*jsonPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open model file: %w", err)
		}
		defer f.Close()
		return importer.ReadModelJSON(f)
	}
	if *nodesPath == "" {
		return nil, nil // serve-only mode
	}
	return importer.LoadModelFiles(*nodesPath, *membersPath, unit)
}

// resolveTolerance converts the -tolerance flag value to meters.
func resolveTolerance(value float64, unit string) (float64, error) {
	if !units.IsValid(unit) {
		return 0, fmt.Errorf("invalid -units %q (valid: %s)", unit, units.GetValidUnitsString())
	}
	meters, err := units.ToMeters(value, unit)
	if err != nil {
		return 0, err
	}
	if meters <= 0 {
		return 0, fmt.Errorf("tolerance must be > 0, got %v %s", value, unit)
	}
	return meters, nil
}

func main() {
	flag.Parse()
	log.Printf("strukt %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	if *jsonPath == "" && *nodesPath == "" && *listen == "" {
		log.Fatal("nothing to do: provide -json or -nodes, or -listen to serve existing runs")
	}

	tuning := config.DefaultTuning()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuning(*configPath)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	}
	// Flags override the tuning file.
	unit := tuning.GetUnits()
	if *unitFlag != "" {
		unit = *unitFlag
	}
	tolValue := tuning.GetTolerance()
	if *tolerance != 0 {
		tolValue = *tolerance
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	m, err := loadModel(unit)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	if m != nil {
		tol, err := resolveTolerance(tolValue, unit)
		if err != nil {
			log.Fatalf("Bad tolerance: %v", err)
		}
		log.Printf("loaded model %q: %d nodes, %d members", m.Name, len(m.Nodes), len(m.Members))

		rep, err := cleanup.MergeCoincidentNodesWithConfig(m, tol, tuning.IndexConfig(), nil)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		if err := database.RecordRun(rep); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}

		if *plotDir != "" {
			path, err := report.WriteMergeScatter(*plotDir, m, rep)
			if err != nil {
				log.Printf("failed to write merge plot: %v", err)
			} else {
				log.Printf("wrote merge plot %s", path)
			}
		}
	}

	if *listen == "" {
		return
	}

	server := api.NewServer(database, nil)
	mux := server.ServeMux()
	database.AttachAdminRoutes(mux)

	httpServer := &http.Server{Addr: *listen, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("report server listening on %s", *listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
