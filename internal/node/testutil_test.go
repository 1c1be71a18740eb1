package node

import (
	"net"
	"testing"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// pairedConns returns two ends of an in-memory TCP loopback connection,
// following the real-socket testing style of tools/net/sshutil/testserver.go
// rather than a net.Pipe (whose synchronous, unbuffered semantics would
// deadlock this protocol's blocking single-threaded writes).
func pairedConns(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	type result struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan result, 1)
	go func() {
		c, err := ln.Accept()
		acceptCh <- result{c, err}
	}()

	client, err = net.Dial("tcp4", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	r := <-acceptCh
	if r.err != nil {
		t.Fatalf("Accept: %v", r.err)
	}
	return client, r.conn
}

func mustAddr(t *testing.T, ip string, port int) wire.Addr {
	t.Helper()
	a, err := wire.ParseAddrInt(ip, port)
	if err != nil {
		t.Fatalf("ParseAddrInt(%s, %d): %v", ip, port, err)
	}
	return a
}

func testNode(t *testing.T) *Node {
	t.Helper()
	self := mustAddr(t, "10.0.0.1", 5000)
	dir := mustAddr(t, "10.0.0.9", 4000)
	return New(self, 100, dir, logger.NewLogger(logger.Error+1))
}

// startFakeUDP runs a minimal UDP responder standing in for the
// registration directory service, modeled on the loopback test-server idiom
// in tools/net/sshutil/testserver.go.
func startFakeUDP(t *testing.T, handle func(req string) string) (wire.Addr, func()) {
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
