package cmd

import (
	"database/sql"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/db"
	"mspro-labs/inspection-map/internal/feature"
	"mspro-labs/inspection-map/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Web UI server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServer() error {
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	homeTmpl, err := web.Templates(template.FuncMap{}, "home.html")
	if err != nil {
		return err
	}

	zap.L().Info("web UI started", zap.String("addr", serveAddr))
	server := &http.Server{
		Addr:         serveAddr,
		Handler:      newMux(database, homeTmpl),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func newMux(database *sql.DB, homeTmpl *template.Template) http.Handler {
	router := chi.NewRouter()

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		items, err := db.GetActiveRestaurants(database, r.URL.Query().Get("sort"))
		if err != nil {
			loadError(w, err)
			return
		}
		if err := homeTmpl.ExecuteTemplate(w, "base.html", items); err != nil {
			zap.L().Error("template error", zap.Error(err))
		}
	})

	router.Get("/features.json", func(w http.ResponseWriter, r *http.Request) {
		items, err := db.GetActiveRestaurants(database, r.URL.Query().Get("sort"))
		if err != nil {
			loadError(w, err)
			return
		}
		fc := feature.NewCollection()
		for _, item := range items {
			if f := feature.FromRestaurant(item); f != nil {
				fc.Features = append(fc.Features, f)
			}
		}
		w.Header().Set("Content-Type", "application/geo+json")
		if err := feature.Write(w, fc); err != nil {
			zap.L().Error("write features", zap.Error(err))
		}
	})

	return router
}

func loadError(w http.ResponseWriter, err error) {
	if eris.Is(err, db.ErrUnknownSort) {
		http.Error(w, "Unknown sort order", http.StatusBadRequest)
		return
	}
	zap.L().Error("list restaurants", zap.Error(err))
	http.Error(w, "Failed to load restaurants", http.StatusInternalServerError)
}
