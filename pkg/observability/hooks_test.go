package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSearchHooks{}
	s.OnLoad(ctx, "flights.csv", 100, time.Second, nil)
	s.OnGraphBuilt(ctx, 200, 340, time.Millisecond)
	s.OnSearchComplete(ctx, "WIW", "RFZ", 3, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "search")
	c.OnCacheMiss(ctx, "search")
	c.OnCacheSet(ctx, "search", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/routes")
	h.OnResponse(ctx, "GET", "/v1/routes", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Search() should return NoopSearchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSearch := &testSearchHooks{}
	SetSearchHooks(customSearch)
	if Search() != customSearch {
		t.Error("SetSearchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Search().(NoopSearchHooks); !ok {
		t.Error("Reset() should restore NoopSearchHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testSearchHooks{}
	SetSearchHooks(custom)
	SetSearchHooks(nil)
	if Search() != custom {
		t.Error("SetSearchHooks(nil) should be ignored")
	}

	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should keep the default")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testSearchHooks{}
	SetSearchHooks(h)
	Search().OnSearchComplete(context.Background(), "WIW", "RFZ", 2, time.Second, nil)
	if h.completed != 1 || h.routes != 2 {
		t.Errorf("completed = %d, routes = %d", h.completed, h.routes)
	}
}

type testSearchHooks struct {
	NoopSearchHooks
	completed int
	routes    int
}

func (h *testSearchHooks) OnSearchComplete(_ context.Context, _, _ string, routes int, _ time.Duration, _ error) {
	h.completed++
	h.routes = routes
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
