package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "carniceria-backend/internal/adapters/web"
	"carniceria-backend/internal/app"
	"carniceria-backend/internal/core"
	"carniceria-backend/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	boxWeight := core.DefaultBoxWeightKg
	if v := os.Getenv("BOX_WEIGHT_KG"); v != "" {
		w, err := decimal.NewFromString(v)
		if err != nil || !w.IsPositive() {
			log.Fatalf("invalid BOX_WEIGHT_KG %q", v)
		}
		boxWeight = w
	}

	catalogService := core.NewCatalogService(pool)
	stockService := core.NewStockService(pool)
	clientService := core.NewClientService(pool)
	orderService := core.NewOrderService(pool, boxWeight)
	importService := core.NewImportService(pool)

	svc := app.NewAppService(catalogService, stockService, clientService, orderService, importService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
