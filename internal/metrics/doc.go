// Package metrics records sync run outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed:
//
//	s := syncer.New(fsys, repo, syncer.Options{Recorder: metrics.NoopRecorder{}})
//
// When metrics are configured the CLI swaps in a PrometheusRecorder. A batch
// `postsync sync` run writes the registry to a node-exporter textfile
// (WriteTextfile); `postsync watch` serves it over HTTP (HTTPHandler).
package metrics
