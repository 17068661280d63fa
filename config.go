package boorusnap

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/artyom/autoflags"
)

// Configuration holds the immutable, process-lifetime settings this service
// is built from. It is loaded once from the environment by LoadConfiguration
// and never mutated afterwards, so it may be freely shared across goroutines.
type Configuration struct {
	ListenOn           string `flag:"LISTEN_ON"`
	AllowedOrigins     string `flag:"ALLOWED_ORIGINS"`
	AllowEmptyOrigin   bool   `flag:"ALLOW_EMPTY_ORIGIN"`
	CheckCSRFPresence  bool   `flag:"CHECK_CSRF_PRESENCE"`
	EnableGetRequest   bool   `flag:"ENABLE_GET_REQUEST"`

	HTTPProxy string `flag:"HTTP_PROXY"`

	CamoKey  string `flag:"CAMO_KEY"`
	CamoHost string `flag:"CAMO_HOST"`

	TumblrAPIKey string `flag:"TUMBLR_API_KEY"`

	TwitterUseV2        bool   `flag:"TWITTER_USE_V2"`
	TwitterAPIKey       string `flag:"TWITTER_API_KEY"`
	TwitterAPIKeySecret string `flag:"TWITTER_API_KEY_SECRET"`
	TwitterAPIKeyBearer string `flag:"TWITTER_API_KEY_BEARER"`

	PreferredNitterInstanceHost string `flag:"PREFERRED_NITTER_INSTANCE_HOST"`

	LogLevel string `flag:"LOG_LEVEL"`

	SentryURL string `flag:"SENTRY_URL"`
}

// DefaultConfiguration returns the documented defaults for every setting.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		ListenOn:       "127.0.0.1:8080",
		AllowedOrigins: "localhost,localhost:8080",
		LogLevel:       "INFO",
	}
}

// AllowedOriginList splits AllowedOrigins on commas, dropping empty entries.
func (c *Configuration) AllowedOriginList() []string {
	var out []string
	for _, s := range strings.Split(c.AllowedOrigins, ",") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsAllowedOrigin reports whether origin may make requests against this
// service, per §4.9: an empty allow-list permits anything; a missing Origin
// header (origin == nil) is permitted only when AllowEmptyOrigin is set.
func (c *Configuration) IsAllowedOrigin(origin *string) bool {
	if origin == nil {
		return c.AllowEmptyOrigin
	}
	allowed := c.AllowedOriginList()
	if len(allowed) == 0 {
		return true
	}
	for _, host := range allowed {
		if host == *origin {
			return true
		}
	}
	return false
}

// configError reports a fatal configuration problem, one that should abort
// startup rather than be handled per-request.
type configError struct{ msg string }

func (e *configError) Error() string { return e.msg }

// LoadConfiguration builds a Configuration from environment variables, using
// the same flag-tag reflection (github.com/artyom/autoflags) the teacher's
// own github.com/artyom/httpflags package already uses to fill a struct from
// HTTP form values — only the argument source changes, from parsed request
// form values to os.LookupEnv by flag name.
func LoadConfiguration() (*Configuration, error) {
	cfg := DefaultConfiguration()
	fs := new(flag.FlagSet)
	fs.SetOutput(io.Discard)
	autoflags.DefineFlagSet(fs, cfg)

	var args []string
	fs.VisitAll(func(f *flag.Flag) {
		if v, ok := os.LookupEnv(f.Name); ok {
			args = append(args, "-"+f.Name+"="+v)
		}
	})
	if err := fs.Parse(args); err != nil {
		return nil, &configError{"could not load configuration from environment: " + err.Error()}
	}
	return cfg, nil
}
