package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chartdeck/internal/catalog"
	"github.com/MeKo-Tech/chartdeck/internal/layer"
	"github.com/MeKo-Tech/chartdeck/internal/server"
	"github.com/MeKo-Tech/chartdeck/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart layer API and chart tiles",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("state-db", "./chartdeck.db", "Path to the layer state database")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served tiles")
	serveCmd.Flags().Int("scan-workers", 4, "Parallel metadata readers for the chart directory scan")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.state_db", "state-db")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.scan_workers", "scan-workers")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	chartsDir := viper.GetString("charts-dir")
	stateDB := viper.GetString("serve.state_db")
	cacheControl := viper.GetString("serve.cache_control")
	scanWorkers := viper.GetInt("serve.scan_workers")

	st, err := store.Open(stateDB)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer st.Close()

	cat := catalog.NewDirCatalog(catalog.DirConfig{Dir: chartsDir, Workers: scanWorkers}, logger)

	mgr := layer.NewManager(cat, st, logger)
	if err := mgr.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load chart layers: %w", err)
	}

	srv := server.New(mgr, server.Config{CacheControl: cacheControl}, logger)
	defer srv.Close()

	logger.Info("chart server listening",
		"addr", addr,
		"charts_dir", chartsDir,
		"state_db", stateDB,
		"charts", len(mgr.Layers()),
	)

	httpSrv := &http.Server{Addr: addr, Handler: srv.Routes(), ReadHeaderTimeout: 5 * time.Second}
	return httpSrv.ListenAndServe()
}
