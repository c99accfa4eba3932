package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"csv-drop/internal/server"
	"csv-drop/internal/storage"
)

func main() {
	server.ConfigureLogging(
		os.Getenv("CSVDROP_LOG_FORMAT"),
		getenvDefault("CSVDROP_LOG_LEVEL", "info"),
		getenvDefault("CSVDROP_ENV", "development"),
	)

	// Refuse to start on malformed settings.
	if err := server.ValidateAllConfiguration(); err != nil {
		server.Error("invalid_configuration", nil, err)
		os.Exit(1)
	}
	server.WarnOnOptionalMissingConfig()

	addr := getenvDefault("CSVDROP_ADDR", ":8000")

	build := server.BuildInfo{
		Version: getenvDefault("CSVDROP_VERSION", "dev"),
		Commit:  getenvDefault("CSVDROP_COMMIT", "unknown"),
	}

	// Validated above, so parse errors cannot occur here.
	maxBytes, _ := strconv.ParseInt(getenvDefault("CSVDROP_MAX_UPLOAD_BYTES", "0"), 10, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := openStore(ctx)
	cancel()
	if err != nil {
		server.Error("storage_init_failed", nil, err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Addr:           addr,
		Build:          build,
		Store:          store,
		AllowedOrigins: splitOrigins(os.Getenv("CSVDROP_ALLOWED_ORIGINS")),
		MaxUploadBytes: maxBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		server.Info("starting", map[string]any{
			"addr":     addr,
			"storage":  store.Kind(),
			"location": storeLocation(store),
			"version":  build.Version,
			"commit":   build.Commit,
		})
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		server.Info("shutting_down", map[string]any{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			server.Error("shutdown_error", nil, err)
			os.Exit(1)
		}
		server.Info("shutdown_complete", nil)
	case err := <-errCh:
		if err != nil {
			server.Error("server_error", nil, err)
			os.Exit(1)
		}
	}
}

// openStore builds the upload store selected by CSVDROP_STORAGE.
func openStore(ctx context.Context) (storage.Store, error) {
	switch getenvDefault("CSVDROP_STORAGE", "dir") {
	case "minio":
		return storage.NewBucketStore(ctx, storage.BucketConfig{
			Endpoint:  os.Getenv("CSVDROP_S3_ENDPOINT"),
			AccessKey: os.Getenv("CSVDROP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("CSVDROP_S3_SECRET_KEY"),
			Bucket:    os.Getenv("CSVDROP_BUCKET"),
			Region:    os.Getenv("CSVDROP_S3_REGION"),
		})
	default:
		confine, _ := strconv.ParseBool(os.Getenv("CSVDROP_CONFINE_FILENAMES"))
		return storage.NewDirStore(
			getenvDefault("CSVDROP_UPLOAD_DIR", "uploads"),
			storage.WithConfinement(confine),
		)
	}
}

// storeLocation names where uploads land, for the startup log.
func storeLocation(s storage.Store) string {
	switch st := s.(type) {
	case *storage.DirStore:
		return st.Dir()
	case *storage.BucketStore:
		return st.Bucket()
	default:
		return ""
	}
}

// splitOrigins parses a comma separated origin list. Empty input yields nil,
// which the server treats as the default origin.
func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getenvDefault reads an environment variable and returns a default value if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
