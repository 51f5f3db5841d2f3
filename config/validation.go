package config

import (
	"fmt"
	"net"
	"net/url"

	"github.com/grovetools/sessionsync/errors"
)

var validBackends = map[string]bool{"": true, "file": true, "sqlite": true, "memory": true}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !validBackends[c.Session.Storage.Backend] {
		return errors.ConfigInvalid(fmt.Sprintf("unknown storage backend '%s'", c.Session.Storage.Backend)).
			WithDetail("field", "session.storage.backend")
	}

	if c.Bridge.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Bridge.Listen); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "bridge.listen must be host:port").
				WithDetail("field", "bridge.listen")
		}
	}

	if c.Bridge.URL != "" {
		u, err := url.Parse(c.Bridge.URL)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "bridge.url is not a valid URL").
				WithDetail("field", "bridge.url")
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return errors.ConfigInvalid("bridge.url must use ws:// or wss://").
				WithDetail("field", "bridge.url")
		}
	}

	for _, origin := range c.Bridge.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ConfigInvalid(fmt.Sprintf("allowed origin '%s' must be scheme://host[:port]", origin)).
				WithDetail("field", "bridge.allowed_origins")
		}
	}

	return nil
}
