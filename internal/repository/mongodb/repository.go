// Package mongodb implements persistence for all storefront collections on the
// official MongoDB driver. Each entity gets a small repository interface so
// services can be exercised against in-memory fakes.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, one per entity.
const (
	collProducts    = "products"
	collCategories  = "categories"
	collInventory   = "inventory"
	collCoupons     = "coupons"
	collOrders      = "orders"
	collUsers       = "users"
	collPayments    = "payments"
	collSubscribers = "subscribers"
	collWishlists   = "wishlists"
	collReports     = "daily_reports"
)

// Client wraps a connected mongo client scoped to the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{client: client, db: client.Database(dbName)}, nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// WithTransaction runs fn inside a multi-document transaction. Any error from
// fn aborts the transaction; writes issued through the callback context become
// visible only on commit.
func (c *Client) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}
