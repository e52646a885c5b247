// Package feed fetches the raw fleet payload from the upstream endpoint.
//
// The client owns connection reuse, the request timeout, the cache-busting
// query parameter and the retry/backoff policy. Failures surface as a
// *FetchError once the attempt budget is spent.
package feed
