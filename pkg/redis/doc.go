// Package redis connects to the redis instance used for webhook event
// deduplication. Setup retries like the mongo connector so service and
// store can start in any order.
package redis
