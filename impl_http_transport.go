package gocollection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

var _json = jsoniter.ConfigCompatibleWithStandardLibrary

// SearchParamsKey is the query string key carrying the JSON-encoded
// parameters of an HTTP request.
const SearchParamsKey = "searchParams"

const _errorBodyLimit = 4 << 10

// HTTPTransport fetches records from a REST endpoint:
//
//	GET {baseURL}/{entityType}?searchParams={"offset":0,"maxSize":20,...}
//
// The response body must be a JSON object of the Response shape.
type HTTPTransport[T Record] struct {
	baseURL string
	client  *http.Client
	header  http.Header
}

// NewHTTPTransport creates a transport for the API rooted at baseURL.
func NewHTTPTransport[T Record](baseURL string) *HTTPTransport[T] {
	return &HTTPTransport[T]{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		header:  http.Header{},
	}
}

// WithClient sets the HTTP client used for requests.
func (t *HTTPTransport[T]) WithClient(client *http.Client) *HTTPTransport[T] {
	if client != nil {
		t.client = client
	}

	return t
}

// WithHeader adds a header sent with every request.
func (t *HTTPTransport[T]) WithHeader(key string, value string) *HTTPTransport[T] {
	t.header.Add(key, value)

	return t
}

// Do - implements Transport.
func (t *HTTPTransport[T]) Do(ctx context.Context, query Query) (*Response[T], error) {
	req, err := t.newRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, _errorBodyLimit))

		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        errors.New(lo.CoalesceOrEmpty(strings.TrimSpace(string(body)), http.StatusText(resp.StatusCode))),
		}
	}

	var ret Response[T]
	err = _json.NewDecoder(resp.Body).Decode(&ret)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode body: %v", ErrMalformedResponse, err)
	}

	return &ret, nil
}

func (t *HTTPTransport[T]) newRequest(ctx context.Context, query Query) (*http.Request, error) {
	endpoint, err := url.JoinPath(t.baseURL, query.EntityType)
	if err != nil {
		return nil, fmt.Errorf("cannot build endpoint url: %w", err)
	}

	params, err := _json.Marshal(query.Params())
	if err != nil {
		return nil, fmt.Errorf("cannot encode search params: %w", err)
	}

	values := url.Values{}
	values.Set(SearchParamsKey, string(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}

	req.Header = t.header.Clone()
	req.Header.Set("Accept", "application/json")

	return req, nil
}

var _ Transport[Record] = (*HTTPTransport[Record])(nil)
