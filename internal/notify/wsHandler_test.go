package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
)

func dialWs(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func waitForSubscribers(t *testing.T, registry *Registry, jobId string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.SubscriberCount(jobId) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber count for %s never reached %d", jobId, want)
}

func TestWsHandler_SubscribeAndReceive(t *testing.T) {
	jobs := map[string]docModel.Snapshot{"job-1": testSnapshot("job-1", jobModel.JobStatusProcessing)}
	registry := NewRegistry(snapshotLoaderFor(jobs))
	srv := httptest.NewServer(NewWsHandler(registry))
	defer srv.Close()

	conn := dialWs(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(clientMessage{Type: "subscribe", JobId: "job-1"}); err != nil {
		t.Fatalf("subscribe write failed: %v", err)
	}
	waitForSubscribers(t, registry, "job-1", 1)

	registry.Publish(context.Background(), "job-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var snapshot docModel.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		t.Fatalf("payload is not a snapshot: %v", err)
	}
	if snapshot.Id != "job-1" || snapshot.Status != jobModel.JobStatusProcessing {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestWsHandler_UnsubscribeMessage(t *testing.T) {
	registry := NewRegistry(snapshotLoaderFor(nil))
	srv := httptest.NewServer(NewWsHandler(registry))
	defer srv.Close()

	conn := dialWs(t, srv)
	defer conn.Close()

	conn.WriteJSON(clientMessage{Type: "subscribe", JobId: "job-1"})
	waitForSubscribers(t, registry, "job-1", 1)

	conn.WriteJSON(clientMessage{Type: "unsubscribe", JobId: "job-1"})
	waitForSubscribers(t, registry, "job-1", 0)
}

func TestWsHandler_DisconnectCleansUp(t *testing.T) {
	registry := NewRegistry(snapshotLoaderFor(nil))
	srv := httptest.NewServer(NewWsHandler(registry))
	defer srv.Close()

	conn := dialWs(t, srv)
	conn.WriteJSON(clientMessage{Type: "subscribe", JobId: "job-1"})
	waitForSubscribers(t, registry, "job-1", 1)

	conn.Close()
	waitForSubscribers(t, registry, "job-1", 0)
}

func TestWsHandler_IgnoresMalformedMessages(t *testing.T) {
	registry := NewRegistry(snapshotLoaderFor(nil))
	srv := httptest.NewServer(NewWsHandler(registry))
	defer srv.Close()

	conn := dialWs(t, srv)
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(clientMessage{Type: "subscribe"}) // missing jobId
	conn.WriteJSON(clientMessage{Type: "subscribe", JobId: "job-1"})
	waitForSubscribers(t, registry, "job-1", 1)
}
