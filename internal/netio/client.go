package netio

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/saito-io/saito-node/internal/core"
	"github.com/saito-io/saito-node/internal/errs"
)

// fetchTimeout bounds a single block-fetch HTTP round trip.
const fetchTimeout = 5 * time.Second

// Client implements fetch_block_from_peer over the block-fetch HTTP
// channel using fasthttp for the request.
type Client struct {
	http *fasthttp.Client
}

// NewClient builds a Client with a shared fasthttp connection pool.
func NewClient() *Client {
	return &Client{http: &fasthttp.Client{}}
}

// FetchBlock GETs <baseURL>/<hex_hash> and returns the raw block bytes.
// baseURL is the peer's advertised or statically configured fetch URL,
// already including a trailing "/block/".
func (c *Client) FetchBlock(baseURL string, hash core.Hash) ([]byte, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/" + hex.EncodeToString(hash[:])

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.http.DoTimeout(req, resp, fetchTimeout); err != nil {
		return nil, errs.Wrap(errs.ResourceExhausted, err, "netio: block fetch request failed")
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, errs.Newf(errs.Invalid, "netio: block fetch returned status %d", resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
