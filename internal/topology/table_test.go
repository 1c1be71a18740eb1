package topology

import (
	"net"
	"testing"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

type fakeConn struct {
	net.Conn
	id int
}

func addr(t *testing.T, ip string, port int) wire.Addr {
	t.Helper()
	a, err := wire.ParseAddrInt(ip, port)
	if err != nil {
		t.Fatalf("ParseAddrInt: %v", err)
	}
	return a
}

func TestAddAssignsIncreasingInterfaceIDs(t *testing.T) {
	table := NewTable()
	n1, err := table.Add(&fakeConn{id: 1}, addr(t, "1.1.1.1", 1), Internal)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	n2, err := table.Add(&fakeConn{id: 2}, addr(t, "2.2.2.2", 2), Internal)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if n1.InterfaceID != 1 || n2.InterfaceID != 2 {
		t.Errorf("interface ids = %d, %d, want 1, 2", n1.InterfaceID, n2.InterfaceID)
	}
}

func TestInterfaceIDNotReusedWhileLive(t *testing.T) {
	table := NewTable()
	n1, _ := table.Add(&fakeConn{id: 1}, addr(t, "1.1.1.1", 1), Internal)
	n2, _ := table.Add(&fakeConn{id: 2}, addr(t, "2.2.2.2", 2), Internal)
	table.Remove(n1)
	n3, _ := table.Add(&fakeConn{id: 3}, addr(t, "3.3.3.3", 3), Internal)
	if n3.InterfaceID <= n2.InterfaceID {
		t.Errorf("new neighbor id %d should exceed remaining max id %d", n3.InterfaceID, n2.InterfaceID)
	}
}

func TestTableCapacity(t *testing.T) {
	table := NewTable()
	for i := 0; i < wire.MaxIface-1; i++ {
		if _, err := table.Add(&fakeConn{id: i}, addr(t, "1.1.1.1", i+1), Internal); err != nil {
			t.Fatalf("Add #%d: %v", i, err)
		}
	}
	if _, err := table.Add(&fakeConn{id: 99}, addr(t, "9.9.9.9", 9), Internal); err == nil {
		t.Error("expected error adding neighbor beyond capacity")
	}
}

func TestAtMostOneExternal(t *testing.T) {
	table := NewTable()
	table.Add(&fakeConn{id: 1}, addr(t, "1.1.1.1", 1), External)
	ext, ok := table.External()
	if !ok || ext.Role != External {
		t.Fatal("expected an external neighbor")
	}
	internals := table.Internals()
	if len(internals) != 0 {
		t.Errorf("Internals() = %v, want empty", internals)
	}
}

func TestByAddrAndByInterfaceID(t *testing.T) {
	table := NewTable()
	a := addr(t, "1.1.1.1", 1)
	n, _ := table.Add(&fakeConn{id: 1}, a, Internal)
	if got, ok := table.ByAddr(a); !ok || got != n {
		t.Error("ByAddr failed to find inserted neighbor")
	}
	if got, ok := table.ByInterfaceID(n.InterfaceID); !ok || got != n {
		t.Error("ByInterfaceID failed to find inserted neighbor")
	}
	table.Remove(n)
	if _, ok := table.ByAddr(a); ok {
		t.Error("neighbor should be gone after Remove")
	}
}
