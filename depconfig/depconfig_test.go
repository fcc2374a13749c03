package depconfig_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/hexlade/multiworld/depconfig"
)

var testSnapshot = depconfig.Snapshot{
	PlayType:       "ClientAndServer",
	StreamingRole:  "Host",
	ServerHost:     "10.0.0.5",
	ServerPort:     7979,
	NumThinClients: 2,
	AutoConnect:    true,
}

type ServerTestSuite struct {
	suite.Suite

	srv *depconfig.Server
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.srv = depconfig.NewServer("127.0.0.1:0", testSnapshot)
}

func (s *ServerTestSuite) TestServesSnapshot() {
	req := httptest.NewRequest(http.MethodGet, depconfig.ConfigPath, nil)
	resp, err := s.srv.App().Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got depconfig.Snapshot
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Require().Equal(testSnapshot, got)
}

func (s *ServerTestSuite) TestServesUpdatedSnapshot() {
	updated := testSnapshot
	updated.ServerHost = "10.0.0.9"
	s.srv.SetSnapshot(updated)

	req := httptest.NewRequest(http.MethodGet, depconfig.ConfigPath, nil)
	resp, err := s.srv.App().Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var got depconfig.Snapshot
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&got))
	s.Require().Equal("10.0.0.9", got.ServerHost)
}

func (s *ServerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, depconfig.HealthPath, nil)
	resp, err := s.srv.App().Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var reply depconfig.HealthReply
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&reply))
	// Serve was never called in this test, so the loop is not running.
	s.Require().False(reply.IsServerRunning)
}

func TestClientFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != depconfig.ConfigPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, err := json.Marshal(testSnapshot)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	client := depconfig.NewClient(ts.Listener.Addr().String())
	got, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != testSnapshot {
		t.Fatalf("got %+v, want %+v", got, testSnapshot)
	}
}

func TestClientFetchBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := depconfig.NewClient(ts.Listener.Addr().String())
	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
