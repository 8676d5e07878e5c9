package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html><head><title>Laser makers</title></head>
<body>
<nav>Home | About</nav>
<article>
<h1>Laser makers expand</h1>
<p>Coherent Corp. announced a new fiber laser line on Monday, saying demand from industrial customers remained strong throughout the quarter.</p>
<p>IPG Photonics and Trumpf also reported growth, according to analysts who follow the directed energy sector closely.</p>
<p>The companies expect further orders from defense programs over the next several years as budgets increase.</p>
<p>Analysts noted that the market for high-energy lasers has grown steadily, with procurement offices placing multi-year contracts for ship-based and ground-based systems intended for counter-drone missions.</p>
<p>Suppliers of optics, beam control hardware and cooling systems are expanding their factories to keep up with demand, while smaller firms focus on compact diode lasers for sensing and communications.</p>
</article>
</body></html>`

func TestText(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	f := New(Options{UserAgent: "TestBot/1.0"})
	text, err := f.Text(context.Background(), server.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, text, "Coherent Corp.")
	assert.Contains(t, text, "IPG Photonics")
	assert.Equal(t, "TestBot/1.0", gotUA)
}

func TestTextErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/large":
			_, _ = w.Write([]byte(strings.Repeat("a", 2048)))
		case "/loop":
			http.Redirect(w, r, "/loop", http.StatusFound)
		}
	}))
	defer server.Close()

	f := New(Options{MaxBodySize: 1024, MaxRedirects: 2})

	_, err := f.Text(context.Background(), server.URL+"/missing")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)

	_, err = f.Text(context.Background(), server.URL+"/large")
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	_, err = f.Text(context.Background(), server.URL+"/loop")
	assert.ErrorIs(t, err, ErrTooManyRedirects)

	_, err = f.Text(context.Background(), "ftp://example.com/file")
	assert.ErrorContains(t, err, "invalid article url")
}

func TestTextBreakerPerHost(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			_, _ = w.Write([]byte(articleHTML))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer good.Close()

	f := New(Options{})
	for i := 0; i < 10; i++ {
		_, err := f.Text(context.Background(), bad.URL+"/bad")
		var se *StatusError
		require.ErrorAs(t, err, &se)
	}

	// 失败站点被熔断，包括其健康页面
	_, err := f.Text(context.Background(), bad.URL+"/ok")
	assert.ErrorIs(t, err, ErrHostUnavailable)

	text, err := f.Text(context.Background(), good.URL+"/article")
	require.NoError(t, err)
	assert.Contains(t, text, "Coherent Corp.")
}
