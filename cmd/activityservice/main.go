// Command activityservice serves activity records stored in MongoDB.
//
// # Configuration
//
// Settings come from an optional YAML file (-config), a .env file and the
// environment:
//
//	ACTIVITY_MONGO_URI         - connection string (default: "mongodb://localhost:27017/fitnessactivity")
//	ACTIVITY_MONGO_DATABASE    - database name (default: database in the URI)
//	ACTIVITY_MONGO_COLLECTION  - collection name (default: "activity")
//	ACTIVITY_MONGO_TIMEOUT     - per-operation timeout (default: "5s")
//	ACTIVITY_HTTP_ADDR         - HTTP listen address (default: ":8082")
//	ACTIVITY_DEBUG             - enable debug logs (default: false)
//
// # Example
//
//	ACTIVITY_MONGO_URI=mongodb://localhost:27017/fitnessactivity go run ./cmd/activityservice
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"goa.design/clue/health"
	"goa.design/clue/log"

	"github.com/fitness-app/activityservice/activity"
	"github.com/fitness-app/activityservice/config"
	activitymongo "github.com/fitness-app/activityservice/features/activity/mongo"
	clientsmongo "github.com/fitness-app/activityservice/features/activity/mongo/clients/mongo"
	"github.com/fitness-app/activityservice/features/mongo/provider"
)

func main() {
	var (
		configF = flag.String("config", "", "Path to a YAML configuration file")
		dbgF    = flag.Bool("debug", false, "Log request and response bodies")
	)
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))

	cfg, err := config.Load(*configF)
	if err != nil {
		log.Fatalf(ctx, err, "failed to load configuration")
	}
	dbg := *dbgF || cfg.Debug
	if dbg {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	log.Print(ctx,
		log.KV{K: "mongo-database", V: cfg.Mongo.Database},
		log.KV{K: "mongo-collection", V: cfg.Mongo.Collection},
		log.KV{K: "http-addr", V: cfg.HTTP.Addr},
	)

	if err := run(ctx, cfg, dbg); err != nil {
		log.Fatal(ctx, err)
	}
}

func run(ctx context.Context, cfg config.Config, dbg bool) error {
	// Single client handle shared by every component for the process lifetime.
	mongoProvider := provider.New(cfg.Mongo.URI, provider.WithAppName("activityservice"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoProvider.Close(ctx); err != nil {
			log.Errorf(ctx, err, "failed to disconnect from MongoDB")
		}
	}()

	var repo activity.Repository
	var client clientsmongo.Client
	{
		qc, err := mongoProvider.QueryContext(ctx, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("create query context: %w", err)
		}
		client, err = clientsmongo.New(clientsmongo.Options{
			Query:      qc,
			Collection: cfg.Mongo.Collection,
			Timeout:    cfg.Mongo.Timeout,
		})
		if err != nil {
			return fmt.Errorf("create mongo client: %w", err)
		}
		// The connection is lazy: an unreachable server is reported but does
		// not prevent startup.
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Errorf(ctx, err, "failed to ensure activity indexes")
		}
		mongoRepo, err := activitymongo.NewRepository(client)
		if err != nil {
			return fmt.Errorf("create repository: %w", err)
		}
		if repo, err = activity.Instrument(mongoRepo); err != nil {
			return fmt.Errorf("instrument repository: %w", err)
		}
	}

	checker := health.NewChecker(client)

	errc := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("%s", <-c)
	}()

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)
	handleHTTPServer(ctx, cfg.HTTP.Addr, repo, checker, &wg, errc, dbg)

	log.Printf(ctx, "exiting (%v)", <-errc)
	cancel()
	wg.Wait()
	log.Printf(ctx, "exited")
	return nil
}
