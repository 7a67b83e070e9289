// Package api serves the HTTP contract of the inventory and RFID service over
// SQLite storage and a simulated reader. It is the development stand-in the
// dashboard talks to.
package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/rfidash/internal/simreader"
)

// NewRouter creates the stand-in router with all endpoints registered.
func NewRouter(db *sql.DB, rd *simreader.Reader) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	rfidHandler := &RFIDHandler{DB: db, Reader: rd}

	mux.HandleFunc("GET /health", health)

	mux.HandleFunc("GET /get_all_items", itemsHandler.List)
	mux.HandleFunc("GET /find_item_by_uid/{uid}", itemsHandler.Find)
	mux.HandleFunc("POST /add_manually", itemsHandler.Add)
	mux.HandleFunc("POST /add_from_tag/{epc}", itemsHandler.AddFromTag)
	mux.HandleFunc("POST /exit_item/{uid}", itemsHandler.Exit)
	mux.HandleFunc("POST /update_item/{uid}", itemsHandler.Update)
	mux.HandleFunc("DELETE /delete_item/{uid}", itemsHandler.Delete)
	mux.HandleFunc("GET /count_by_sku/{sku}", itemsHandler.CountBySKU)
	mux.HandleFunc("GET /count_by_lot/{lot}", itemsHandler.CountByLot)

	mux.HandleFunc("GET /start_reading", rfidHandler.StartReading)
	mux.HandleFunc("GET /start_reading_exits", rfidHandler.StartReadingExits)
	mux.HandleFunc("POST /stop_reading", rfidHandler.StopReading)
	mux.HandleFunc("POST /write_tag", rfidHandler.WriteTag)

	// Simulation controls.
	mux.HandleFunc("POST /simulate/scan/{epc}", rfidHandler.Scan)
	mux.HandleFunc("GET /simulate/writes", rfidHandler.Writes)

	return LoggingMiddleware(CORSMiddleware(mux))
}

func health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339Nano),
	})
}
