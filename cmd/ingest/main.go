package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/storage"
)

// The ingest service only receives raw dataset CSVs and drops them in
// the upload directory under their baseline file names, where the
// optimizer server picks them up as its baseline directory. When
// object storage is configured, uploads are mirrored to the bucket.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		store = client
	}

	r := mux.NewRouter()
	r.HandleFunc("/ingest/{role}", uploadHandler(cfg.App.UploadDir, store)).Methods("POST")

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Ingest service starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func uploadHandler(uploadDir string, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := dataset.ParseRole(mux.Vars(r)["role"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}

		name := dataset.BaselineFiles[role]
		dest := filepath.Join(uploadDir, name)
		if err := os.WriteFile(dest, payload, 0o644); err != nil {
			http.Error(w, "failed to store upload", http.StatusInternalServerError)
			return
		}

		if store != nil {
			if err := store.UploadObject(r.Context(), name, payload); err != nil {
				log.Printf("failed to mirror %s to object storage: %v", name, err)
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "stored %s\n", dest)
	}
}
