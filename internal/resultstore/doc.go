// Package resultstore archives condensed aggregation runs in Redis so that
// several operators can publish and compare results from different output trees.
//
// # Redis Schema
//
// All keys and channels are namespaced so that unrelated result sets can share
// one Redis server:
//
//	Run metadata:  figplot:{namespace}:run:{run_id}        (hash)
//	Run rows:      figplot:{namespace}:run:{run_id}:rows   (list of JSON rows)
//	Run index:     figplot:{namespace}:runs                (zset scored by created_at_ms)
//	Run events:    figplot:{namespace}:run_events          (pub/sub, full run JSON)
//
// # Usage Example
//
//	client, err := resultstore.NewClient(&redis.Options{Addr: "localhost:6379"}, "figplot")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	run := resultstore.NewRun("./out", rows)
//	if err := client.PublishRun(ctx, run); err != nil {
//		log.Fatal(err)
//	}
package resultstore
