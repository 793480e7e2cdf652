package client

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/simpleauthlink/appticket/helpers"
)

// ClientConfig struct represents the configuration needed to use the client.
type ClientConfig struct {
	// APIEndpoint is the API hostname.
	APIEndpoint string
	url         *url.URL
	// AppId is the identifier of the app on the API server.
	AppId string
	// Secret is the app secret obtained from the API server.
	Secret string
	// HTTPClient is the client used to make the requests, if it is nil the
	// default one is used.
	HTTPClient *http.Client
}

// check function validates the configuration and returns an error if the
// configuration is invalid. If the API endpoint is empty, it uses the default
// API endpoint.
func (conf *ClientConfig) check() error {
	if conf == nil {
		return fmt.Errorf("config is required")
	}
	if conf.APIEndpoint == "" {
		conf.APIEndpoint = helpers.DefaultAPIEndpoint
	}
	if !helpers.ValidAppId(conf.AppId) {
		return fmt.Errorf("invalid app id: %q", conf.AppId)
	}
	if conf.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if conf.HTTPClient == nil {
		conf.HTTPClient = http.DefaultClient
	}
	var err error
	conf.url, err = url.Parse(conf.APIEndpoint)
	if err != nil {
		return fmt.Errorf("invalid API endpoint: %w", err)
	}
	return nil
}
