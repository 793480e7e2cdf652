package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/simpleauthlink/appticket/api"
	"github.com/simpleauthlink/appticket/helpers"
	"github.com/simpleauthlink/appticket/ticket"
)

// Client struct represents an app that authenticates its requests with
// tickets. It issues the tickets with the app id and the app secret of its
// configuration, so it never needs the master secret of the API server.
type Client struct {
	config *ClientConfig
}

// New function creates a new client based on the provided configuration. The
// configuration must include, at least, the app id and the secret of your
// app. If the API endpoint is empty, it uses the default API endpoint.
func New(config *ClientConfig) (*Client, error) {
	if err := config.check(); err != nil {
		return nil, err
	}
	return &Client{config: config}, nil
}

// Ticket method issues a fresh ticket for the app of the client.
func (cli *Client) Ticket() (string, error) {
	t, err := ticket.NewClientTicket(cli.config.AppId, cli.config.Secret)
	if err != nil {
		return "", fmt.Errorf("error issuing ticket: %w", err)
	}
	return t, nil
}

// NewRequest method creates a new request like http.NewRequestWithContext and
// attaches a fresh ticket to it in the x-ticket header.
func (cli *Client) NewRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	t, err := cli.Ticket()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set(helpers.AltTicketHeader, t)
	return req, nil
}

// VerifyTicket method verifies the ticket provided using the API server and
// returns the result of the verification. It returns an error if the server
// responds with something different than a verification result.
func (cli *Client) VerifyTicket(ctx context.Context, t string) (*api.VerifyResponse, error) {
	// create a new URL based on the API endpoint
	u := new(url.URL)
	*u = *cli.config.url
	// add the ticket to the query
	query := u.Query()
	query.Set(helpers.TicketQueryParam, t)
	u.Path = helpers.VerifyEndpointPath
	u.RawQuery = query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := cli.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()
	// the server responds with the result both for valid and invalid tickets,
	// any other status is an error
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected response: [%d] %s", resp.StatusCode, string(msg))
	}
	res := &api.VerifyResponse{}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return res, nil
}

// ValidateTicket method validates the ticket provided using the API server.
// It returns true if the ticket is valid, false if the ticket is invalid, or
// an error if something goes wrong during the process.
func (cli *Client) ValidateTicket(ctx context.Context, t string) (bool, error) {
	res, err := cli.VerifyTicket(ctx, t)
	if err != nil {
		return false, err
	}
	return res.Valid, nil
}
