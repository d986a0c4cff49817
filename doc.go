// Package restclient provides a small synchronous REST client over
// net/http:
//
//   - GET/POST/PUT/DELETE/HEAD verbs returning response bodies as strings
//   - Optional response caching keyed by URL (+ canonical headers), with
//     in-memory, go-cache and Redis backends
//   - Optional rate limiting via a fixed inter-request delay (requests are
//     serialized through a FIFO gate)
//   - Optional de-duplication of identical concurrent reads
//   - Manual application/x-www-form-urlencoded and multipart/form-data
//     body construction
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - No retries, redirect policy or connection management beyond what
//     net/http already does
//
// Typical usage:
//
//	client := restclient.New(
//	    restclient.WithCache(),
//	    restclient.WithRequestDelay(250*time.Millisecond),
//	)
//	body, err := client.Get(ctx, "https://api.example.com/data")
//
// Responses with status >= 400 are returned as *HTTPError carrying the
// status code and the error body. Cancelling the context while a call is
// waiting on the gate yields an empty body and a nil error: the call
// deliberately produced no result.
package restclient
