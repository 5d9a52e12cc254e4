package statsfeed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/hips"
	"github.com/gogpu/hips/tile"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStats(t *testing.T, conn *websocket.Conn) hips.Stats {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var st hips.Stats
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return st
}

func TestHubSendsLastSnapshotThenUpdates(t *testing.T) {
	h := New(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	h.Publish(hips.Stats{Frame: 1, Mode: "Raytrace"})
	conn := dial(t, srv)

	if st := readStats(t, conn); st.Frame != 1 || st.Mode != "Raytrace" {
		t.Errorf("first snapshot = %+v", st)
	}
	h.Publish(hips.Stats{
		Frame: 2,
		Mode:  "Rasterize",
		Surveys: []hips.SurveyStats{
			{URL: "mem://a", Ready: true, Resident: 12},
		},
	})
	st := readStats(t, conn)
	if st.Frame != 2 || len(st.Surveys) != 1 || st.Surveys[0].Resident != 12 {
		t.Errorf("update = %+v", st)
	}
	if h.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", h.Clients())
	}
}

func TestHubForwardsCommands(t *testing.T) {
	h := New(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	opacity := float32(0.25)
	if err := conn.WriteJSON(Command{}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(Command{Layer: "base", Opacity: &opacity}); err != nil {
		t.Fatal(err)
	}

	select {
	case cmd := <-h.Commands():
		if cmd.Layer != "base" || cmd.Opacity == nil || *cmd.Opacity != 0.25 || cmd.Visible != nil {
			t.Errorf("command = %+v", cmd)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no command received")
	}
}

func TestCommandApply(t *testing.T) {
	c := hips.NewCollection()
	cfg := tile.DefaultConfig("mem://a")
	cfg.TileSize = 8
	if _, err := c.SetImageSurveys([]hips.LayerSpec{{Layer: "base", Survey: cfg, Meta: hips.DefaultLayerMeta()}}); err != nil {
		t.Fatal(err)
	}

	hidden := false
	opacity := float32(0.5)
	if err := (Command{Layer: "base", Opacity: &opacity, Visible: &hidden}).Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	meta, err := c.LayerMeta("base")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Opacity != 0.5 || meta.Visible {
		t.Errorf("meta = %+v", meta)
	}

	bad := float32(2)
	if err := (Command{Layer: "base", Opacity: &bad}).Apply(c); err == nil {
		t.Error("opacity 2 accepted")
	}
	if err := (Command{Layer: "missing"}).Apply(c); err == nil {
		t.Error("unknown layer accepted")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	h := New(nil)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	h.Publish(hips.Stats{Frame: 1})
	readStats(t, conn)

	h.Close()
	if h.Clients() != 0 {
		t.Errorf("Clients() after Close = %d", h.Clients())
	}
	h.Publish(hips.Stats{Frame: 2})
}
