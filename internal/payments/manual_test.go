package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectOne(t *testing.T, p *ManualProvider, cb Callbacks) uuid.UUID {
	t.Helper()
	require.NoError(t, p.Collect(context.Background(), testCharge(), cb))
	ids := p.Pending()
	require.Len(t, ids, 1)
	return ids[0]
}

func TestManualCompleteResolvesSuccess(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)

	var ref string
	id := collectOne(t, p, Callbacks{OnSuccess: func(r string) { ref = r }})

	require.NoError(t, p.Complete(id))
	assert.Equal(t, "manual_"+id.String(), ref)
	assert.Empty(t, p.Pending(), "resolved intents are removed")
}

func TestManualFailResolvesFailure(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)

	var reason string
	id := collectOne(t, p, Callbacks{OnFailure: func(r string) { reason = r }})

	require.NoError(t, p.Fail(id, ""))
	assert.Equal(t, "Payment was cancelled at checkout.", reason)
}

func TestManualResolveUnknownIntent(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)

	assert.Error(t, p.Complete(uuid.New()))
	assert.Error(t, p.Fail(uuid.New(), "nope"))
}

func TestManualCloseDeclinesPending(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)

	var reason string
	collectOne(t, p, Callbacks{OnFailure: func(r string) { reason = r }})

	p.Close()
	assert.Equal(t, "Payment was cancelled at checkout.", reason)
	assert.Empty(t, p.Pending())

	err := p.Collect(context.Background(), testCharge(), Callbacks{})
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestManualCheckoutURL(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)
	id := uuid.New()
	assert.Equal(t, "http://localhost:8080/demo/payments/"+id.String(), p.CheckoutURL(id))
}

func TestDemoHandlerCheckoutPage(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)
	id := collectOne(t, p, Callbacks{})

	h := NewDemoHandler(p, nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/payments/" + id.String())
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
}

func TestDemoHandlerCompleteFlow(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)

	var succeeded bool
	id := collectOne(t, p, Callbacks{OnSuccess: func(string) { succeeded = true }})

	h := NewDemoHandler(p, nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/payments/"+id.String()+"/complete", "", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, succeeded)

	// A second completion hits a resolved intent.
	resp, err = http.Post(srv.URL+"/payments/"+id.String()+"/complete", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDemoHandlerRejectsBadID(t *testing.T) {
	p := NewManualProvider("http://localhost:8080", nil)
	h := NewDemoHandler(p, nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/payments/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
