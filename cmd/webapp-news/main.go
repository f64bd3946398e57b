package main

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/quangminhduong-hustlereal/webapp-news/internal/api"
	"github.com/quangminhduong-hustlereal/webapp-news/internal/config"
	"github.com/quangminhduong-hustlereal/webapp-news/internal/service"
	"github.com/quangminhduong-hustlereal/webapp-news/internal/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("db open: %v", err)
	}
	// ping + wait, the db might still be starting in docker
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		sugar.Infow("waiting for db", "attempt", i+1, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		sugar.Fatalf("could not connect to db: %v", err)
	}

	if err := store.RunMigrations(db); err != nil {
		sugar.Fatalf("migrations: %v", err)
	}

	repo := store.NewPgStore(db)
	svc := service.NewService(repo)
	handler := api.NewHandler(svc, sugar)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	sugar.Infof("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sugar.Fatalf("server failed: %v", err)
	}
}
