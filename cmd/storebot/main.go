// Command storebot runs the Telegram storefront bot and its admin REST API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/m3rciful/storebot/core/bootstrap"
	"github.com/m3rciful/storebot/core/buildinfo"
	"github.com/m3rciful/storebot/core/config"
	"github.com/m3rciful/storebot/core/logger"
	tg "github.com/m3rciful/storebot/core/telegram"
	"github.com/m3rciful/storebot/core/telegram/router"
	"github.com/m3rciful/storebot/internal/api"
	"github.com/m3rciful/storebot/internal/bot"
	"github.com/m3rciful/storebot/internal/service"
	"github.com/m3rciful/storebot/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storebot:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer func() {
		_ = res.DB.Close()
		_ = logger.Shutdown()
	}()

	logger.L.Info("starting",
		slog.String("version", buildinfo.Version),
		slog.String("commit", buildinfo.Commit),
	)

	users := store.NewUserStore(res.DB)
	categories := store.NewCategoryStore(res.DB)
	products := store.NewProductStore(res.DB)
	purchases := service.NewPurchaseService(res.DB, users, products)

	reg := tg.NewRegistry()
	storefront := bot.New(users, categories, products, purchases)
	storefront.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoute(reg, router.TextOptions{}))
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	apiServer := api.NewServer(cfg.API, api.Stores{
		Users:      users,
		Categories: categories,
		Products:   products,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tg.RunTelegram(ctx, tg.RunOptions{
			Config:      cfg,
			Registry:    reg,
			Middlewares: tg.DefaultMiddlewares(cfg, nil),
			Routes:      routes,
		})
	})

	g.Go(func() error {
		return apiServer.Start(ctx, fmt.Sprintf(":%d", cfg.API.Port))
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}

	logger.L.Info("stopped")
	return nil
}
