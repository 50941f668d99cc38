// Package database owns the single MongoDB connection for the process and
// hands out memoized collection handles. The client is constructed
// explicitly and injected into the repositories rather than living in a
// package global, so tests and the seed task can build their own.
package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"nycarrests/internal/config"
)

// Logical collection names.
const (
	CollArrests  = "arrests"
	CollUsers    = "users"
	CollComments = "comments"
)

// connectTimeout bounds the initial connection attempt.
const connectTimeout = 10 * time.Second

// ErrConnect marks a failed connection establishment. The attempt is not
// retried internally; the next call starts a fresh one.
var ErrConnect = errors.New("could not connect to database")

// Database lazily connects on first use and caches the client, database and
// collection handles. The mutex makes first use single-flight: concurrent
// early callers block on the one connection attempt instead of racing to
// create duplicates.
type Database struct {
	cfg *config.Config

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
	cols   map[string]*mongo.Collection
}

func New(cfg *config.Config) *Database {
	return &Database{
		cfg:  cfg,
		cols: make(map[string]*mongo.Collection),
	}
}

// Collection returns the handle for the named collection, connecting on
// first call. Repeated calls are cheap and share state.
func (d *Database) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connectLocked(ctx); err != nil {
		return nil, err
	}

	col, ok := d.cols[name]
	if !ok {
		col = d.db.Collection(name)
		d.cols[name] = col
	}
	return col, nil
}

// Arrests, Users and Comments are the typed accessors the repositories use.

func (d *Database) Arrests(ctx context.Context) (*mongo.Collection, error) {
	return d.Collection(ctx, CollArrests)
}

func (d *Database) Users(ctx context.Context) (*mongo.Collection, error) {
	return d.Collection(ctx, CollUsers)
}

func (d *Database) Comments(ctx context.Context) (*mongo.Collection, error) {
	return d.Collection(ctx, CollComments)
}

// connectLocked establishes the client if it does not exist yet. Caller
// holds d.mu. A failed attempt leaves the struct untouched so the next call
// retries.
func (d *Database) connectLocked(ctx context.Context) error {
	if d.client != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	d.client = client
	d.db = client.Database(d.cfg.MongoDBName)
	log.Println("Connected to database successfully")
	return nil
}

// Ping verifies the connection, establishing it if needed. Used at startup
// to fail fast.
func (d *Database) Ping(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectLocked(ctx)
}

// Close tears the connection down. Used by the seed task and tests.
func (d *Database) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Disconnect(ctx)
	d.client = nil
	d.db = nil
	d.cols = make(map[string]*mongo.Collection)
	return err
}

// Drop removes the whole database. Seed-only.
func (d *Database) Drop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.connectLocked(ctx); err != nil {
		return err
	}
	return d.db.Drop(ctx)
}
