package region

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	got, err := StaticResolver{}.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = StaticResolver{Value: "virginia"}.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "VA", got.Abbreviation)

	_, err = StaticResolver{Value: "Atlantis"}.Resolve(context.Background())
	assert.Error(t, err)
}

func TestGeoIPResolver(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{"ipapi.co", http.StatusOK, `{"region":"Illinois","region_code":"IL","country_code":"US"}`, "IL", false},
		{"ip-api.com", http.StatusOK, `{"status":"success","region":"VA","regionName":"Virginia","countryCode":"US"}`, "VA", false},
		{"ip-api.com failure", http.StatusOK, `{"status":"fail","message":"private range"}`, "", false},
		{"outside US", http.StatusOK, `{"region":"Ontario","region_code":"ON","country_code":"CA"}`, "", false},
		{"server error", http.StatusInternalServerError, `oops`, "", true},
		{"bad json", http.StatusOK, `{`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewGeoIPResolver(srv.URL, srv.Client()).Resolve(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Abbreviation)
		})
	}
}

func TestGeoIPResolverContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGeoIPResolver(srv.URL, srv.Client()).Resolve(ctx)
	assert.Error(t, err)
}

func TestCachedResolverCallsOnce(t *testing.T) {
	calls := 0
	inner := ResolverFunc(func(context.Context) (*Info, error) {
		calls++
		return nil, errors.New("denied")
	})

	c := NewCachedResolver(inner)
	_, ok := c.Cached()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		got, err := c.Resolve(context.Background())
		assert.Nil(t, got)
		assert.EqualError(t, err, "denied")
	}
	assert.Equal(t, 1, calls)

	_, ok = c.Cached()
	assert.True(t, ok)
}

func TestFirstOf(t *testing.T) {
	failing := ResolverFunc(func(context.Context) (*Info, error) { return nil, errors.New("boom") })
	empty := StaticResolver{}
	va := StaticResolver{Value: "VA"}

	got, err := FirstOf(failing, empty, va).Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Virginia", got.FullName)

	got, err = FirstOf(empty, failing).Resolve(context.Background())
	assert.Nil(t, got)
	assert.Error(t, err)

	got, err = FirstOf(empty, nil).Resolve(context.Background())
	assert.Nil(t, got)
	assert.NoError(t, err)
}
