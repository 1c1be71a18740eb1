package registration

import (
	"context"
	"net"
	"testing"
	"time"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// startFakeDirectory runs a minimal UDP responder implementing the parts of
// the directory protocol these tests exercise, returning its address and a
// stop function. Modeled on the loopback test-server idiom in
// tools/net/sshutil/testserver.go.
func startFakeDirectory(t *testing.T, handle func(req string) string) (wire.Addr, func()) {
	t.Helper()
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	done := make(chan struct{})
	go func() {
		buf := make([]byte, 2048)
		for {
			n, peer, err := conn.ReadFrom(buf)
			if err != nil {
				close(done)
				return
			}
			reply := handle(string(buf[:n]))
			conn.WriteTo([]byte(reply), peer)
		}
	}()
	udpAddr := conn.LocalAddr().(*net.UDPAddr)
	addr, err := wire.ParseAddrInt("127.0.0.1", udpAddr.Port)
	if err != nil {
		t.Fatalf("ParseAddrInt: %v", err)
	}
	return addr, func() { conn.Close(); <-done }
}

func newTestClient(t *testing.T, directory wire.Addr) *Client {
	t.Helper()
	c := NewClient(directory)
	c.Timeout = time.Second
	return c
}

func TestRegisterSuccess(t *testing.T) {
	dir, stop := startFakeDirectory(t, func(req string) string {
		if req != "REG 101 1.2.3.4 9000" {
			t.Errorf("unexpected request %q", req)
		}
		return wire.RepOKReg
	})
	defer stop()

	c := newTestClient(t, dir)
	self, _ := wire.ParseAddrInt("1.2.3.4", 9000)
	if err := c.Register(context.Background(), "101", self); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestRegisterUnexpectedReply(t *testing.T) {
	dir, stop := startFakeDirectory(t, func(req string) string { return "GARBAGE" })
	defer stop()

	c := newTestClient(t, dir)
	self, _ := wire.ParseAddrInt("1.2.3.4", 9000)
	if err := c.Register(context.Background(), "101", self); err == nil {
		t.Fatal("expected error on unexpected reply")
	}
}

func TestRegisterTimeout(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer conn.Close()
	udpAddr := conn.LocalAddr().(*net.UDPAddr)
	dir, _ := wire.ParseAddrInt("127.0.0.1", udpAddr.Port)

	c := newTestClient(t, dir)
	c.Timeout = 50 * time.Millisecond
	self, _ := wire.ParseAddrInt("1.2.3.4", 9000)
	if err := c.Register(context.Background(), "101", self); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestUnregisterSuccess(t *testing.T) {
	dir, stop := startFakeDirectory(t, func(req string) string { return wire.RepOKUnreg })
	defer stop()

	c := newTestClient(t, dir)
	self, _ := wire.ParseAddrInt("1.2.3.4", 9000)
	if err := c.Unregister(context.Background(), "101", self); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
}

func TestNodesSuccess(t *testing.T) {
	dir, stop := startFakeDirectory(t, func(req string) string {
		return "NODESLIST 101\n5.6.7.8 1111\n9.9.9.9 2222\n"
	})
	defer stop()

	c := newTestClient(t, dir)
	addrs, err := c.Nodes(context.Background(), "101")
	if err != nil {
		t.Fatalf("Nodes: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("len(addrs) = %d, want 2", len(addrs))
	}
	want, _ := wire.ParseAddrInt("5.6.7.8", 1111)
	if !addrs[0].Equal(want) {
		t.Errorf("addrs[0] = %v, want %v", addrs[0], want)
	}
}

func TestNodesWrongNetworkInReply(t *testing.T) {
	dir, stop := startFakeDirectory(t, func(req string) string {
		return "NODESLIST 999\n"
	})
	defer stop()

	c := newTestClient(t, dir)
	if _, err := c.Nodes(context.Background(), "101"); err == nil {
		t.Fatal("expected error on network id mismatch")
	}
}
