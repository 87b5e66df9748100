package region

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Resolver determines the subject's current region. A nil Info with a nil
// error means the region is unknown; callers treat both that and an error as
// "no region".
type Resolver interface {
	Resolve(ctx context.Context) (*Info, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context) (*Info, error)

func (f ResolverFunc) Resolve(ctx context.Context) (*Info, error) { return f(ctx) }

// StaticResolver returns a fixed region parsed from configuration or a flag.
type StaticResolver struct {
	Value string
}

// Resolve returns nil when Value is empty and an error when it names no
// known region.
func (s StaticResolver) Resolve(context.Context) (*Info, error) {
	if strings.TrimSpace(s.Value) == "" {
		return nil, nil
	}
	r, ok := Lookup(s.Value)
	if !ok {
		return nil, fmt.Errorf("unknown region %q", s.Value)
	}
	return &r, nil
}

// DefaultGeoIPURL is the lookup endpoint used when none is configured.
const DefaultGeoIPURL = "https://ipapi.co/json/"

// GeoIPResolver resolves the region from the public IP address of the host.
// It understands the response shapes of ipapi.co and ip-api.com.
type GeoIPResolver struct {
	url    string
	client *http.Client
}

// NewGeoIPResolver creates a resolver querying url. An empty url selects
// DefaultGeoIPURL.
func NewGeoIPResolver(url string, client *http.Client) *GeoIPResolver {
	if url == "" {
		url = DefaultGeoIPURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GeoIPResolver{url: url, client: client}
}

type geoIPResponse struct {
	// ipapi.co
	Region      string `json:"region"`
	RegionCode  string `json:"region_code"`
	CountryCode string `json:"country_code"`

	// ip-api.com
	RegionName string `json:"regionName"`
	Country    string `json:"countryCode"`
	Status     string `json:"status"`
}

func (g *GeoIPResolver) Resolve(ctx context.Context) (*Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("geoip read: %w", err)
	}

	var gr geoIPResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("geoip decode: %w", err)
	}
	if gr.Status == "fail" {
		return nil, nil
	}

	country := gr.CountryCode
	if country == "" {
		country = gr.Country
	}
	if country != "" && !strings.EqualFold(country, "US") {
		return nil, nil
	}

	for _, candidate := range []string{gr.RegionCode, gr.RegionName, gr.Region} {
		if r, ok := Lookup(candidate); ok {
			return &r, nil
		}
	}
	return nil, nil
}

// CachedResolver wraps a Resolver so that it is consulted at most once.
// Failures are cached too: a region that could not be resolved stays
// unresolved for the lifetime of the wrapper.
type CachedResolver struct {
	inner Resolver

	mu     sync.Mutex
	done   bool
	result *Info
	err    error
}

func NewCachedResolver(inner Resolver) *CachedResolver {
	return &CachedResolver{inner: inner}
}

func (c *CachedResolver) Resolve(ctx context.Context) (*Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.result, c.err
	}
	c.result, c.err = c.inner.Resolve(ctx)
	c.done = true
	return c.result, c.err
}

// Cached reports the cached value without resolving. ok is false until the
// first Resolve call has returned.
func (c *CachedResolver) Cached() (info *Info, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.done
}

// FirstOf tries each resolver in order and returns the first region found.
// Errors from earlier resolvers are skipped; the last error is returned only
// if no resolver produced a region.
func FirstOf(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context) (*Info, error) {
		var lastErr error
		for _, r := range resolvers {
			if r == nil {
				continue
			}
			info, err := r.Resolve(ctx)
			if err != nil {
				lastErr = err
				continue
			}
			if info != nil {
				return info, nil
			}
		}
		return nil, lastErr
	})
}
