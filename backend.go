package main

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/store"
	"storefront/internal/store/memory"
)

type backend struct {
	carts     handlers.CartStore
	addresses handlers.AddressStore
	orders    handlers.OrderStore
	products  cache.ProductStore
	users     handlers.UserStore
	ping      handlers.Pinger
	close     func()
}

func openBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return &backend{
			carts:     memory.NewCarts(),
			addresses: memory.NewAddresses(),
			orders:    memory.NewOrders(),
			products:  memory.NewProducts(),
			users:     memory.NewUsers(),
			close:     func() {},
		}, nil
	case "mongo":
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DBName)
		log.Info("mongodb connected", "database", db.Name())
		return newMongoBackend(ctx, client, db, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// newMongoBackend wires the Mongo stores. Index setup failures are logged
// and startup continues with whatever indexes exist.
func newMongoBackend(ctx context.Context, client *mongo.Client, db *mongo.Database, log *logger.Logger) *backend {
	if err := database.EnsureIndexes(ctx, db, log); err != nil {
		log.Warn("index setup incomplete, continuing", "error", err)
	}

	return &backend{
		carts:     store.NewCarts(db),
		addresses: store.NewAddresses(db),
		orders:    store.NewOrders(db),
		products:  store.NewProducts(db),
		users:     store.NewUsers(db),
		ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		close: func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongodb disconnect failed", "error", err)
			}
		},
	}
}
