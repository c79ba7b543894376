package cli

import (
	"fmt"
	"net/http"

	"github.com/stridehq/stride/internal/constants"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/storage"
	"github.com/stridehq/stride/internal/sync"
)

// ServeCmd runs the reference sync authority over its own replica store.
type ServeCmd struct {
	Addr  string `help:"Listen address." default:":8484"`
	DB    string `help:"Server database path." default:"stride-server.db"`
	Token string `help:"Bearer token clients must present (empty disables auth)." default:""`
}

func (c *ServeCmd) Run(ctx *Context) error {
	store := storage.NewSQLiteStore(c.DB)
	if err := store.Load(); err != nil {
		if err := store.Init(); err != nil {
			return fmt.Errorf("failed to open server store: %w", err)
		}
	}
	defer store.Close()

	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultServeAddr
	}

	server := sync.NewServer(store, c.Token)
	logger.Info("Sync server listening", "addr", addr, "db", c.DB)
	fmt.Printf("Sync server listening on %s\n", addr)
	return http.ListenAndServe(addr, server.Handler())
}
