// Package serve exposes a directory of page files over HTTP.
//
// A Store decodes every *.yaml page in a directory and, when watched,
// reloads pages as their files change. A Server routes requests to the
// renderer: full documents are streamed in batch mode, page bodies in any
// streaming mode, and websocket clients receive one binary message per
// backpressure chunk.
//
//	store, err := serve.NewStore("pages", logger)
//	if err != nil {
//	    return err
//	}
//	store.Watch(ctx)
//
//	srv := serve.New(store, renderer, serve.Options{Gatherer: prometheus.DefaultGatherer})
//	http.ListenAndServe(":8080", srv)
package serve
