package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibenest/internal/handlers"
	"vibenest/internal/llm"
	"vibenest/internal/logger"
	"vibenest/internal/repository"
	"vibenest/internal/repository/db"
	"vibenest/internal/server"
	"vibenest/internal/service"
	"vibenest/internal/speech"
	"vibenest/internal/state"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultListenerTick = 2 * time.Second

func main() {
	envFile := pflag.StringP("env", "e", ".env", "env file path")
	logLevel := pflag.StringP("log", "l", logger.InfoLevel, "log level (debug|info|warn|error)")
	pflag.Parse()

	// init logger
	log := logger.Get(*logLevel)

	// secrets come from the environment; .env is a local-dev convenience
	_ = godotenv.Load(*envFile)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB (event log + users only; vibe state is memory-resident)
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	store := state.New()
	services := service.NewService(repos, store, buildCollaborators(), service.Options{
		SigningKey: signingKey(),
		InboxDir:   viper.GetString("listener.inbox_dir"),
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		AuthRequired:   viper.GetBool("auth.enabled"),
		SoundtracksDir: viper.GetString("assets.soundtracks_dir"),
	})

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// optional ambient listener (continuous-listening variant)
	if viper.GetBool("listener.enabled") {
		go services.Listener.Run(ctx, listenerTick())
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("port", "8090")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("speech.transcription_url", "https://api.openai.com/v1/audio/transcriptions")
	viper.SetDefault("speech.transcription_model", "whisper-1")
	viper.SetDefault("speech.tts_url", "https://api.elevenlabs.io/v1/text-to-speech")

	return viper.ReadInConfig()
}

// buildCollaborators constructs the external-service clients from config and
// environment secrets.
func buildCollaborators() service.Collaborators {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	return service.Collaborators{
		Session: llm.NewSession(openaiKey, viper.GetString("llm.model")),
		Transcriber: speech.NewTranscriber(
			viper.GetString("speech.transcription_url"),
			openaiKey,
			viper.GetString("speech.transcription_model"),
		),
		Classifier: speech.NewClassifier(viper.GetString("speech.classifier_url")),
		Synthesizer: speech.NewSynthesizer(
			viper.GetString("speech.tts_url"),
			os.Getenv("ELEVENLABS_API_KEY"),
			viper.GetString("speech.tts_voice"),
			viper.GetString("speech.tts_model"),
		),
	}
}

// signingKey prefers the environment over config so the key stays out of
// version control.
func signingKey() string {
	if k := os.Getenv("JWT_SIGNING_KEY"); k != "" {
		return k
	}
	return viper.GetString("auth.signing_key")
}

func listenerTick() time.Duration {
	if d := viper.GetDuration("listener.interval"); d > 0 {
		return d
	}
	return defaultListenerTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "vibenest.db")
		dbPath = "vibenest.db"
	}
	return db.Init(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("starting server", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
