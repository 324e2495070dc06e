package config

import (
	"fmt"
	"regexp"
	"strings"
)

// metricNamePart matches a Prometheus metric or label name fragment.
var metricNamePart = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsLabelMap parses MetricsLabels into constant labels. Blank entries
// are skipped.
func (c *Config) MetricsLabelMap() (map[string]string, error) {
	labels := make(map[string]string)
	for _, pair := range strings.Split(c.MetricsLabels, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || !metricNamePart.MatchString(k) || strings.HasPrefix(k, "__") {
			return nil, fmt.Errorf("%w: metrics label %q must be name=value", ErrInvalidConfig, pair)
		}
		if _, dup := labels[k]; dup {
			return nil, fmt.Errorf("%w: metrics label %q given twice", ErrInvalidConfig, k)
		}
		labels[k] = strings.TrimSpace(v)
	}
	return labels, nil
}

func (c *Config) validateMetrics() error {
	for key, v := range map[string]string{
		"metrics_namespace": c.MetricsNamespace,
		"metrics_subsystem": c.MetricsSubsystem,
		"metrics_prefix":    c.MetricsPrefix,
	} {
		if v != "" && !metricNamePart.MatchString(v) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, key, v)
		}
	}
	_, err := c.MetricsLabelMap()
	return err
}
