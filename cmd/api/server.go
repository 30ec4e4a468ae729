package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"gamyartha/internal/api/handlers"
	mw "gamyartha/internal/api/middlewares"
	"gamyartha/internal/api/routers"
	"gamyartha/internal/config"
	"gamyartha/internal/repositories/sqlconnect"
	"gamyartha/pkg/cron"
	"gamyartha/pkg/utils"
)

func main() {
	// .env is optional; real deployments set variables directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("Invalid configuration:", err)
	}

	utils.InitLogger(cfg.AppEnv, cfg.LogLevel)
	utils.ConfigureSMTP(utils.SMTPSettings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPEmail,
		Password: cfg.SMTPPass,
	})
	handlers.AppConfig = cfg

	_, err = sqlconnect.ConnectDb(cfg)
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	cronRunner := cron.StartCronJob(sqlconnect.DB)
	defer cronRunner.Stop()

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware(cfg.JWTSecret), "/users/signup", "/users/login")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:      cfg.ServerPort,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", cfg.ServerPort)
	err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}
}
