/*
Package config builds weakarray arrays from YAML or JSON settings.

# File Format

	host: refcount       # refcount | runtime
	log_level: debug     # debug | info | warn | error
	metrics: true        # record OpenTelemetry metrics
	join_separator: ", " # between slots in Array.String

Every key is optional; see [Default] for the values used when one is missing.

# Usage

	settings, err := config.LoadSettings("weakarray.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	arr, host, err := config.NewArray[Conn](settings, slog.Default())

The returned host is a *lifetime.RefCount[T] or lifetime.Runtime[T]
depending on the host setting.

# Type Handling

[Config] accessors return the default when a key is missing or holds the
wrong type. [Config.Settings] is stricter: a present key with an unusable
value is an error, so a typo in a config file does not silently fall back.
*/
package config
