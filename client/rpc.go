package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RPCError is a JSON-RPC 2.0 error object. The code is surfaced so callers
// can tell a user rejection apart from a node failure.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	Id      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	Id      *interface{}    `json:"id"`
}

// Client is a minimal JSON-RPC 2.0 HTTP client.
type Client struct {
	options *Options
}

type Options struct {
	url           string
	user          string
	password      string
	tlsSkipVerify bool
	cert          string
}

type Option func(*Options)

func WithURL(url string) Option {
	return func(o *Options) {
		o.url = url
	}
}

func WithBasicAuth(user, password string) Option {
	return func(o *Options) {
		o.user = user
		o.password = password
	}
}

func WithCert(cert string) Option {
	return func(o *Options) {
		o.cert = cert
	}
}

func WithTLSSkipVerify(skip bool) Option {
	return func(o *Options) {
		o.tlsSkipVerify = skip
	}
}

func NewClient(opts ...Option) (*Client, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.url == "" {
		return nil, fmt.Errorf("rpc url is empty")
	}
	return &Client{options: options}, nil
}

// SendRequest performs one JSON-RPC call, decoding the result into result
// when it is non-nil. A JSON-RPC error object is returned as *RPCError.
func (c *Client) SendRequest(ctx context.Context, method string, result interface{}, params ...interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	marshalledJSON, err := json.Marshal(&rpcRequest{
		Jsonrpc: "2.0",
		Id:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	bodyReader := bytes.NewReader(marshalledJSON)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.url, bodyReader)
	if err != nil {
		return err
	}
	httpRequest.Close = true
	httpRequest.Header.Set("Content-Type", "application/json")
	if c.options.user != "" {
		httpRequest.SetBasicAuth(c.options.user, c.options.password)
	}
	httpClient, err := c.newHTTPClient()
	if err != nil {
		return err
	}
	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return err
	}

	respBytes, err := io.ReadAll(httpResponse.Body)
	_ = httpResponse.Body.Close()
	if err != nil {
		return fmt.Errorf("error reading json reply: %v", err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		if len(respBytes) == 0 {
			return fmt.Errorf("%d %s", httpResponse.StatusCode, http.StatusText(httpResponse.StatusCode))
		}
		return fmt.Errorf("%s", respBytes)
	}
	resp := &rpcResponse{}
	if err := json.Unmarshal(respBytes, resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil
	}
	return json.Unmarshal(resp.Result, result)
}

// newHTTPClient returns a new HTTP client configured according to the TLS
// settings in the associated connection configuration.
func (c *Client) newHTTPClient() (*http.Client, error) {
	var tlsConfig *tls.Config
	if c.options.cert != "" {
		pem, err := os.ReadFile(c.options.cert)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		pool.AppendCertsFromPEM(pem)
		tlsConfig = &tls.Config{
			RootCAs:            pool,
			InsecureSkipVerify: c.options.tlsSkipVerify,
		}
	}

	client := http.Client{}
	if tlsConfig != nil {
		client.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
	}
	return &client, nil
}
