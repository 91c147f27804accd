package netio

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/saito-io/saito-node/internal/core"
	"github.com/stretchr/testify/assert"
)

type memBlockSource map[core.Hash][]byte

func (m memBlockSource) BlockBytes(h core.Hash) ([]byte, bool) {
	b, ok := m[h]
	return b, ok
}

func TestHandleBlockFetchReturnsKnownBlock(t *testing.T) {
	h := core.Hash{1, 2, 3}
	store := memBlockSource{h: []byte("block-bytes")}

	router := httprouter.New()
	router.GET("/block/:hash", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		handleBlockFetch(w, ps.ByName("hash"), store)
	})

	req := httptest.NewRequest(http.MethodGet, "/block/"+hex.EncodeToString(h[:]), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "block-bytes", rec.Body.String())
}

func TestHandleBlockFetchUnknownBlockIs404(t *testing.T) {
	store := memBlockSource{}
	router := httprouter.New()
	router.GET("/block/:hash", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		handleBlockFetch(w, ps.ByName("hash"), store)
	})

	req := httptest.NewRequest(http.MethodGet, "/block/"+hex.EncodeToString(make([]byte, 32)), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBlockFetchBadHashIs400(t *testing.T) {
	store := memBlockSource{}
	router := httprouter.New()
	router.GET("/block/:hash", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		handleBlockFetch(w, ps.ByName("hash"), store)
	})

	req := httptest.NewRequest(http.MethodGet, "/block/not-hex", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
