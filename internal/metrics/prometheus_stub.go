//go:build noprom

package metrics

// enablePrometheus is a no-op when the prometheus backend is compiled out.
func enablePrometheus(string) error { return nil }
