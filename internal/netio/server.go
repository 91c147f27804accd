package netio

import (
	"encoding/hex"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
	"github.com/saito-io/saito-node/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleNetio)

// BlockSource looks up a block's raw wire bytes by hash to answer the
// block-fetch HTTP channel (GET <fetch_url>/<hex_hash>).
type BlockSource interface {
	BlockBytes(hash core.Hash) ([]byte, bool)
}

// Server serves the block-fetch HTTP channel other peers pull from.
type Server struct {
	httpServer *http.Server
	blocks     BlockSource
}

// NewServer builds an httprouter-backed server on addr, with permissive
// CORS — the block-fetch endpoint is public read-only data, so
// cross-origin clients are allowed.
func NewServer(addr string, blocks BlockSource) *Server {
	router := httprouter.New()
	router.GET("/block/:hash", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		handleBlockFetch(w, ps.ByName("hash"), blocks)
	})

	handler := cors.AllowAll().Handler(router)

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: handler},
		blocks:     blocks,
	}
}

func handleBlockFetch(w http.ResponseWriter, hexHash string, blocks BlockSource) {
	raw, err := hex.DecodeString(hexHash)
	if err != nil || len(raw) != core.HashSize {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	hash := core.HashFromBytes(raw)

	body, ok := blocks.BlockBytes(hash)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ListenAndServe blocks serving the block-fetch endpoint until the
// server is shut down or fails.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.StorageIO, err, "netio: block-fetch server stopped")
	}
	return nil
}

// Close shuts the server down.
func (s *Server) Close() error {
	return s.httpServer.Close()
}
