// Command boorusnap runs the media-URL scraping service: it loads its
// configuration from the environment, builds the HTTP client and caches the
// core needs, and serves the scrape API described by the httpapi package.
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Doist/boorusnap"
	"github.com/Doist/boorusnap/httpapi"
)

func main() {
	config, err := boorusnap.LoadConfiguration()
	if err != nil {
		log.Fatal(err)
	}

	logger := boorusnap.NewLogger(os.Stderr, config.LogLevel)

	client, err := boorusnap.NewHTTPClient(config, logger, nil)
	if err != nil {
		log.Fatal(err)
	}

	resultCache, err := boorusnap.NewCache[string, *boorusnap.ScrapeResult](1000, 100*time.Minute, 10*time.Minute)
	if err != nil {
		log.Fatal(err)
	}
	go purgePeriodically(resultCache, 5*time.Minute)

	srv := &httpapi.Server{
		Config: config,
		Client: client,
		Cache:  resultCache,
		Logger: logger,
	}
	router := httpapi.NewRouter(srv)

	logger.Printf("listening on %s", config.ListenOn)
	log.Fatal(http.ListenAndServe(config.ListenOn, router))
}

func purgePeriodically[K comparable, V any](c *boorusnap.Cache[K, V], every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		c.Purge()
	}
}
