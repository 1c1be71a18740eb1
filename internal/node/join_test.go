package node

import (
	"context"
	"strings"
	"testing"
)

func TestJoinEmptyNetworkBecomesStandalone(t *testing.T) {
	n := testNode(t)
	dir, stop := startFakeUDP(t, func(req string) string {
		if strings.HasPrefix(req, "NODES ") {
			return "NODESLIST 101\n"
		}
		return "OKREG"
	})
	defer stop()
	n.Reg.DirectoryAddr = dir

	if err := n.Join(context.Background(), "101"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !n.Joined || n.NetworkID != "101" {
		t.Errorf("joined=%v networkID=%q, want true, \"101\"", n.Joined, n.NetworkID)
	}
	if n.External != nil {
		t.Error("expected standalone, no external")
	}
}

func TestJoinPairsWithListedPeer(t *testing.T) {
	n := testNode(t)
	peerAddr, accepted := acceptOnce(t)

	dir, stop := startFakeUDP(t, func(req string) string {
		if strings.HasPrefix(req, "NODES ") {
			return "NODESLIST 101\n" + peerAddr.String() + "\n0.0.0.0 0\n" + n.SelfAddr.String() + "\n"
		}
		return "OKREG"
	})
	defer stop()
	n.Reg.DirectoryAddr = dir

	if err := n.Join(context.Background(), "101"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	conn := <-accepted
	defer conn.Close()

	if n.External == nil || !n.External.Equal(peerAddr) {
		t.Errorf("external = %v, want %v", n.External, peerAddr)
	}
}

func TestJoinRejectsWhenAlreadyJoined(t *testing.T) {
	n := testNode(t)
	n.Joined = true
	n.NetworkID = "101"
	if err := n.Join(context.Background(), "202"); err == nil {
		t.Error("expected error joining while already joined")
	}
}

func TestJoinRejectsMalformedNetworkID(t *testing.T) {
	n := testNode(t)
	if err := n.Join(context.Background(), "7"); err == nil {
		t.Error("expected error for malformed network id")
	}
}
