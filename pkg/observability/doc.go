/*
Package observability turns the player's lifecycle hooks into structured logs
and Prometheus metrics.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	r := runner.New(lib, runner.WithHooks(metrics.Hooks(logger)))

The collectors are exposed by promhttp on the HTTP adapter's /metrics route.
*/
package observability
