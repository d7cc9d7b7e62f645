package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxchat/voxchat/config"
	"voxchat/voxchat/controllers"
	"voxchat/voxchat/routes"
	"voxchat/voxchat/services/llm"
	"voxchat/voxchat/services/speech"
	"voxchat/voxchat/services/token"
	"voxchat/voxchat/sources/psql"
	"voxchat/voxchat/sources/psql/dao"
	"voxchat/voxchat/sources/storage"
	"voxchat/voxchat/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Fatal("database connection error", zap.Error(err))
	}
	defer db.Close()
	sqlDB, err := db.DB.DB()
	if err != nil {
		logging.ErrorLogger.Fatal("database handle error", zap.Error(err))
	}

	generator, err := llm.NewGenerator(cfg)
	if err != nil {
		logging.ErrorLogger.Fatal("llm init error", zap.Error(err))
	}
	if cfg.GoogleAPIKey == "" {
		logging.AppLogger.Warn("GOOGLE_API_KEY is empty; speech endpoints will fail")
	}
	speechClient := speech.NewGoogleClient(cfg.STTBaseURL, cfg.TTSBaseURL, cfg.GoogleAPIKey, cfg.SpeechTimeout)

	var archive storage.AudioArchive
	if cfg.ArchiveEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Fatal("minio connection error", zap.Error(err))
		}
		archive = minioClient
		logging.AppLogger.Info("audio archive enabled", zap.String("bucket", cfg.MinIOBucket))
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userDAO := dao.NewUserDAO(db.DB)
	messageDAO := dao.NewMessageDAO(db.DB)

	handler := routes.NewRouter(routes.Dependencies{
		Auth:       controllers.NewAuthController(userDAO, issuer),
		Chat:       controllers.NewChatController(messageDAO, generator, cfg.LLMTimeout),
		Speech:     controllers.NewSpeechController(speechClient, speechClient, archive, cfg.SpeechTimeout),
		Health:     controllers.NewHealthController(sqlDB),
		Verifier:   issuer,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLogger.Fatal("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
