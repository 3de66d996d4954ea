// Package httputil provides the HTTP plumbing shared by the prober and the
// downloader.
//
// # Overview
//
//   - [Client]: a thin GET client that applies default headers and maps
//     response status codes onto [ErrNotFound] and [ErrNetwork]
//   - [Retry]: automatic retry with exponential backoff
//
// # Status classification
//
// [CheckStatus] is the single place that decides what a status code means:
//
//   - 200: success
//   - 404: [ErrNotFound], never retried
//   - 5xx: [ErrNetwork] wrapped in [RetryableError]
//   - anything else: [ErrNetwork], not retried
//
// Transport failures (connection refused, timeouts) are also wrapped in
// [RetryableError].
//
// # Retry
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err := client.Open(ctx, url)
//	    if err != nil {
//	        return err
//	    }
//	    defer body.Close()
//	    _, err = io.Copy(dst, body)
//	    return err
//	})
//
// Defaults: 3 attempts, 1 second initial delay, doubling after each failure.
package httputil
