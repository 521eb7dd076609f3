package entityset

import (
	"log/slog"
	"net/http"

	"github.com/featureforge/entityset/fetch"
)

type options struct {
	logger      *Logger
	profile     fetch.Profile
	resolver    fetch.CredentialResolver
	httpClient  *http.Client
	params      map[string]any
	format      string
	compression string
}

// Option configures the read and write entry points.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithProfile selects a named credential profile for object-storage
// downloads.
func WithProfile(name string) Option {
	return func(o *options) {
		o.profile = fetch.NamedProfile(name)
	}
}

// WithAnonymousAccess forces unauthenticated object-storage downloads.
func WithAnonymousAccess() Option {
	return func(o *options) {
		o.profile = fetch.AnonymousProfile()
	}
}

// WithCredentialResolver replaces the ambient credential prober. Intended
// for tests that need deterministic credential state.
func WithCredentialResolver(r fetch.CredentialResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithHTTPClient replaces the HTTP client used for URL downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLoadParams merges extra parameters into every entity's declared load
// parameters before dispatch. Caller values take precedence over
// manifest-declared ones; parameters a given format's reader does not know
// are ignored by that reader.
func WithLoadParams(params map[string]any) Option {
	return func(o *options) {
		o.params = params
	}
}

// WithFormat selects the data file format for WriteEntitySet: one of csv,
// parquet or pickle. Defaults to csv.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithCompression selects the csv compression codec for WriteEntitySet:
// one of gzip, zstd or lz4. Defaults to none.
func WithCompression(compression string) Option {
	return func(o *options) {
		o.compression = compression
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: NoopLogger(),
		format: "csv",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
