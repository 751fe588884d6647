package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-diary/internal/weather"
)

func TestClientMonthURL(t *testing.T) {
	c := NewClient(http.DefaultClient, Options{BaseURL: "https://www.gismeteo.ru/", CityID: 4618})
	got := c.MonthURL(weather.MonthQuery{Year: 2023, Month: time.March})
	if want := "https://www.gismeteo.ru/diary/4618/2023/03/"; got != want {
		t.Errorf("MonthURL = %q, want %q", got, want)
	}
}

func TestClientFetchMonth(t *testing.T) {
	fixture, err := os.ReadFile("testdata/diary_2023_01.html")
	if err != nil {
		t.Fatal(err)
	}

	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(fixture)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 4618, UserAgent: "Mozilla/5.0"})
	page, err := c.FetchMonth(context.Background(), jan2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/diary/4618/2023/01/" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUA != "Mozilla/5.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(page.Records) != 3 {
		t.Errorf("got %d records, want 3", len(page.Records))
	}
}

func TestClientFetchMonthSingleAttemptOnFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1})
	page, err := c.FetchMonth(context.Background(), jan2023)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
	if !errors.Is(err, ErrStatus) {
		t.Errorf("expected error to match ErrStatus")
	}
	if len(page.Records) != 0 {
		t.Errorf("expected no records")
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestClientFetchMonthRetriesWhenConfigured(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<table align="center" valign="top" border="0"><tr><th/></tr><tr><th/></tr></table>`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1, Retries: 1})
	c.httpCfg.Backoff.InitialInterval = time.Millisecond

	if _, err := c.FetchMonth(context.Background(), jan2023); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected two requests, got %d", n)
	}
}

func TestClientFetchMonthMissingTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Нет данных</p></body></html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1})
	page, err := c.FetchMonth(context.Background(), jan2023)
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
	if len(page.Records) != 0 {
		t.Errorf("expected no records")
	}
}

func TestClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1, BreakerFailures: 2})
	for i := 0; i < 3; i++ {
		c.FetchMonth(context.Background(), jan2023)
	}

	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("expected breaker to stop requests after 2 failures, got %d hits", n)
	}
	_, err := c.FetchMonth(context.Background(), jan2023)
	if !errors.Is(err, errCircuitOpen) {
		t.Errorf("expected circuit open error, got %v", err)
	}
}

func TestClientDefaultOptionsKeepRequestingAfterFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1})
	for i := 0; i < 10; i++ {
		_, err := c.FetchMonth(context.Background(), jan2023)
		if !errors.Is(err, ErrStatus) {
			t.Fatalf("month %d: expected status error, got %v", i, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 10 {
		t.Errorf("expected one request per month, got %d", n)
	}
}

func TestClientStatusErrorNamesURLOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1})
	_, err := c.FetchMonth(context.Background(), jan2023)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if n := strings.Count(msg, c.MonthURL(jan2023)); n != 1 {
		t.Errorf("URL appears %d times in %q", n, msg)
	}
	if !strings.HasSuffix(msg, "503 Service Unavailable") {
		t.Errorf("message = %q", msg)
	}
}

func TestClientFetchMonthDecodesLegacyCharset(t *testing.T) {
	// 0xD1 is Cyrillic "С" in windows-1251.
	body := []byte("<table align=\"center\" valign=\"top\" border=\"0\"><tr><th/></tr><tr><th/></tr>" +
		"<tr><td>7</td><td>1</td><td>760</td><td></td><td></td><td>\xd1</td><td>2</td><td>761</td><td></td><td></td><td>\xd1</td></tr></table>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1251")
		w.Write(body)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Options{BaseURL: srv.URL, CityID: 1})
	page, err := c.FetchMonth(context.Background(), jan2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 1 || page.Records[0].WindDay != "С" {
		t.Fatalf("got %+v", page.Records)
	}
}
