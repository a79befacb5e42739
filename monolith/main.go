package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/crawler"
	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/importer"
	"github.com/mycok/uLookup/linkgraph/graph"
	"github.com/mycok/uLookup/linkgraph/store/cdb"
	memgraph "github.com/mycok/uLookup/linkgraph/store/memory"
	"github.com/mycok/uLookup/lookup"
	"github.com/mycok/uLookup/monolith/partition"
	"github.com/mycok/uLookup/monolith/service"
	"github.com/mycok/uLookup/monolith/service/api"
	"github.com/mycok/uLookup/monolith/service/refresh"
	"github.com/mycok/uLookup/rpc"
	"github.com/mycok/uLookup/seealso"
	"github.com/mycok/uLookup/textindexer/index"
	"github.com/mycok/uLookup/textindexer/store/es"
	memindex "github.com/mycok/uLookup/textindexer/store/memory"
	"github.com/mycok/uLookup/urisearch"
	"github.com/mycok/uLookup/urisearch/indexsearch"
)

const (
	appName = "uLookup-monolith"
	appSHA  = "compiled-and-deployed-at"
)

type flags struct {
	derefWorkers     int
	searchWorkers    int
	lookupWorkers    int
	maxSteps         int
	lookupTimeout    time.Duration
	shutdownTimeout  time.Duration
	seeAlsoRelation  string
	enableSearch     bool
	maxSearchHits    int
	refreshInterval  time.Duration
	refreshThreshold time.Duration
	partitionMode    string
	grpcListenAddr   string
	linkGraphURI     string
	textIndexURI     string
}

func parseFlags() flags {
	var f flags

	flag.IntVar(&f.derefWorkers, "deref-num-workers", runtime.NumCPU(),
		"Number of workers for dereferencing URIs.[defaults to number of CPU's]")
	flag.IntVar(&f.searchWorkers, "search-num-workers", runtime.NumCPU(),
		"Number of workers for searching URI mentions.[defaults to number of CPU's]")
	flag.IntVar(&f.lookupWorkers, "lookup-num-workers", runtime.NumCPU(),
		"Number of concurrently running look-ups.[defaults to number of CPU's]")
	flag.IntVar(&f.maxSteps, "lookup-max-steps", 2,
		"Number of recursive dereferencing steps per look-up (redirects do not count)")
	flag.DurationVar(&f.lookupTimeout, "lookup-timeout", 30*time.Second,
		"Time after which a look-up stops waiting for outstanding work")
	flag.DurationVar(&f.shutdownTimeout, "shutdown-timeout", 10*time.Second,
		"Time allowed for running look-ups to wind down on shutdown")
	flag.StringVar(&f.seeAlsoRelation, "see-also-relation", "seealso",
		"Relation of references followed at step 0 (empty disables see-also following)")
	flag.BoolVar(&f.enableSearch, "search", true,
		"Search the text index for documents mentioning looked-up URIs")
	flag.IntVar(&f.maxSearchHits, "search-max-hits", indexsearch.DefaultMaxHits,
		"Maximum number of documents followed per URI search")
	flag.DurationVar(&f.refreshInterval, "refresh-interval", 5*time.Minute,
		"Time between subsequent refresh passes")
	flag.DurationVar(&f.refreshThreshold, "refresh-threshold", 24*time.Hour,
		"Minimum amount of time before looking up an already retrieved link again")
	flag.StringVar(&f.partitionMode, "partition-detection-mode", "single",
		"The partition detection mode to use. Supported values are"+
			" 'dns=HEADLESS_SERVICE_NAME' (k8s) and 'single' (local dev mode)")
	flag.StringVar(&f.grpcListenAddr, "grpc-listen-addr", ":8080",
		"Address to listen on for incoming gRPC look-up requests")
	flag.StringVar(&f.linkGraphURI, "link-graph-uri", "in-memory://",
		"URI for connecting to a link-graph data store."+
			" [supported URI's: in-memory://, postgresql://user@host:26257/linkgraph?sslmode=disable]")
	flag.StringVar(&f.textIndexURI, "text-index-uri", "in-memory://",
		"URI for connecting to a text-index data store."+
			" [supported URI's: in-memory://, es://node1:9200,...,nodeN:9200]")

	flag.Parse()

	return f
}

func main() {
	host, _ := os.Hostname()
	// Instantiate a root logger that will be passed to all services.
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"SHA":  appSHA,
		"host": host,
	})

	if err := run(parseFlags(), logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to an error")
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func run(f flags, logger *logrus.Entry) error {
	linkGraph, err := getLinkGraph(f.linkGraphURI, logger)
	if err != nil {
		return err
	}
	defer closeStore(linkGraph, logger)

	textIndex, err := getTextIndex(f.textIndexURI, logger)
	if err != nil {
		return err
	}
	defer closeStore(textIndex, logger)

	partDet, err := partition.FromMode(f.partitionMode)
	if err != nil {
		return err
	}

	lookupMgr, svcGroup, err := configureServices(f, linkGraph, textIndex, partDet, logger)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	// Cancel the shared context on SIGINT/SIGHUP so that every service
	// returns.
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGHUP)

		select {
		case s := <-signalChan:
			logger.WithField("signal", s.String()).Info("shutting down due to os signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	groupErr := svcGroup.Execute(ctx)

	// The services are gone; release the waiters of look-ups that are still
	// queued or running.
	if err := lookupMgr.ShutdownNow(context.Background(), f.shutdownTimeout); err != nil {
		logger.WithField("err", err).Warn("look-up manager did not shut down cleanly")
	}

	logger.WithFields(lookupMgr.Stats().Fields()).Info("final look-up statistics")

	return groupErr
}

func configureServices(
	f flags,
	linkGraph graph.Graph,
	textIndex index.Indexer,
	partDet partition.Detector,
	logger *logrus.Entry,
) (*lookup.Manager, service.Group, error) {

	d := dict.New()

	dereferencer, err := crawler.New(crawler.Config{
		Logger: logger.WithField("component", "crawler"),
	})
	if err != nil {
		return nil, nil, err
	}

	imp, err := importer.New(importer.Config{
		Graph:   linkGraph,
		Indexer: textIndex,
		Logger:  logger.WithField("component", "importer"),
	})
	if err != nil {
		return nil, nil, err
	}

	derefMgr, err := deref.NewManager(deref.Config{
		Dereferencer: dereferencer,
		Dictionary:   d,
		NumOfWorkers: f.derefWorkers,
		Logger:       logger.WithField("component", "deref"),
	})
	if err != nil {
		return nil, nil, err
	}

	settings := lookup.Settings{
		Dereferencing: derefMgr,
		Importer:      imp,
		MaxSteps:      f.maxSteps,
		Timeout:       f.lookupTimeout,
	}

	if f.enableSearch {
		searchMgr, err := urisearch.NewManager(urisearch.Config{
			QueryProcessor: indexsearch.New(textIndex, f.maxSearchHits),
			Dictionary:     d,
			NumOfWorkers:   f.searchWorkers,
			Logger:         logger.WithField("component", "search"),
		})
		if err != nil {
			return nil, nil, err
		}

		settings.Search = searchMgr
	}

	if f.seeAlsoRelation != "" {
		settings.SeeAlso = &lookup.SeeAlso{
			Relation: f.seeAlsoRelation,
			Dataset:  seealso.NewGraphDataset(linkGraph),
		}
	}

	lookupMgr, err := lookup.NewManager(lookup.Config{
		Settings:     settings,
		Dictionary:   d,
		NumOfWorkers: f.lookupWorkers,
		Logger:       logger.WithField("component", "lookup"),
	})
	if err != nil {
		return nil, nil, err
	}

	var svcGroup service.Group

	apiSvc, err := api.New(api.Config{
		ListenAddr: f.grpcListenAddr,
		Server:     rpc.NewServer(lookupMgr, decision.DefaultRelookup(clock.WallClock)),
		Logger:     logger.WithField("service", "api"),
	})
	if err != nil {
		return nil, nil, err
	}
	svcGroup = append(svcGroup, apiSvc)

	refreshSvc, err := refresh.New(refresh.Config{
		GraphAPI:          linkGraph,
		Requester:         lookupMgr,
		PartitionDetector: partDet,
		Interval:          f.refreshInterval,
		Threshold:         f.refreshThreshold,
		Logger:            logger.WithField("service", "refresh"),
	})
	if err != nil {
		return nil, nil, err
	}
	svcGroup = append(svcGroup, refreshSvc)

	return lookupMgr, svcGroup, nil
}

func getLinkGraph(linkGraphURI string, logger *logrus.Entry) (graph.Graph, error) {
	if linkGraphURI == "" {
		return nil, fmt.Errorf("link graph URI must be specified with --link-graph-uri")
	}

	url, err := url.Parse(linkGraphURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse link graph URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory link graph store")

		return memgraph.NewInMemoryGraph(), nil
	case "postgresql":
		logger.Info("using CDB link graph store")

		return cdb.NewCockroachDBGraph(linkGraphURI)
	default:
		return nil, fmt.Errorf("unsupported link graph URI scheme: %q", url.Scheme)
	}
}

func getTextIndex(textIndexURI string, logger *logrus.Entry) (index.Indexer, error) {
	if textIndexURI == "" {
		return nil, fmt.Errorf("text index URI must be specified with --text-index-uri")
	}

	url, err := url.Parse(textIndexURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text index URI: %w", err)
	}

	switch url.Scheme {
	case "in-memory":
		logger.Info("using in-memory index store")

		return memindex.NewInMemoryIndex()
	case "es":
		nodes := strings.Split(url.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
		logger.Info("using ES index store")

		return es.NewEsIndexer(nodes, false)
	default:
		return nil, fmt.Errorf("unsupported text index URI scheme: %q", url.Scheme)
	}
}

func closeStore(store interface{}, logger *logrus.Entry) {
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.WithField("err", err).Warn("unable to close data store")
		}
	}
}
