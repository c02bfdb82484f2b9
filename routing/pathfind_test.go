package routing

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

func newTestKey(t *testing.T) *btcec.PublicKey {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey()
}

func alwaysLive(*btcec.PublicKey) bool { return true }

// TestSingleHopRoute covers a single edge L -> X priced base=10,
// prop=1000, delay=6, routing 100_000_000 msat should cost
// fee = 10 + 100_000_000*1000/1_000_000 = 100_010.
func TestSingleHopRoute(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)

	g.AddConnection(l, x, 10, 1000, 6, 0)

	route, err := g.FindRoute(l, x, 100_000_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Len(t, route.Edges, 1)
	require.Equal(t, int64(100_010), route.FeeMsat)
	require.True(t, route.FirstHopPeer.IsEqual(x))
}

// TestTwoHopVsOneHopTie covers {L -> X; L -> Y -> X}, priced identically
// modulo the per-hop risk nudge. The one-hop path must win.
func TestTwoHopVsOneHopTie(t *testing.T) {
	g := NewGraph()
	l, x, y := newTestKey(t), newTestKey(t), newTestKey(t)

	g.AddConnection(l, x, 0, 0, 0, 0)
	g.AddConnection(l, y, 0, 0, 0, 0)
	g.AddConnection(y, x, 0, 0, 0, 0)

	route, err := g.FindRoute(l, x, 1_000_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Len(t, route.Edges, 1)
	require.True(t, route.FirstHopPeer.IsEqual(x))
}

// TestNoRoute covers find_route to an unknown destination, which
// returns an error rather than a route.
func TestNoRoute(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)
	g.AddConnection(l, x, 10, 1000, 6, 0)

	unknown := newTestKey(t)
	route, err := g.FindRoute(l, unknown, 1_000, 1.0, alwaysLive)
	require.Error(t, err)
	require.Nil(t, route)
}

// TestNoPathExists covers the no-route-exists branch distinct from an
// unknown destination: both nodes are known but disconnected.
func TestNoPathExists(t *testing.T) {
	g := NewGraph()
	l, x, isolated := newTestKey(t), newTestKey(t), newTestKey(t)
	g.AddConnection(l, x, 10, 1000, 6, 0)
	g.AddNode(isolated, "", 0)

	route, err := g.FindRoute(l, isolated, 1_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.Nil(t, route)
}

// TestFirstHopMustBeLivePeer exercises find_route's liveness check:
// a reachable first hop that isn't a known live peer yields no route.
func TestFirstHopMustBeLivePeer(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)
	g.AddConnection(l, x, 10, 1000, 6, 0)

	route, err := g.FindRoute(l, x, 1_000, 1.0, func(*btcec.PublicKey) bool { return false })
	require.NoError(t, err)
	require.Nil(t, route)
}

// TestMinBlocksEnforced covers an edge whose min_blocks exceeds the
// cumulative downstream delay: it must be skipped during relaxation.
func TestMinBlocksEnforced(t *testing.T) {
	g := NewGraph()
	l, x, y := newTestKey(t), newTestKey(t), newTestKey(t)

	g.AddConnection(l, y, 0, 0, 10, 1_000_000) // min_blocks impossible to satisfy
	g.AddConnection(y, x, 0, 0, 10, 0)
	g.AddConnection(l, x, 1_000_000, 0, 0, 0) // expensive but usable direct edge

	route, err := g.FindRoute(l, x, 1_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Len(t, route.Edges, 1)
}

// TestRemoveConnectionIdempotent covers the round-trip law: add then
// remove leaves the graph in its prior state modulo node existence.
func TestRemoveConnectionIdempotent(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)

	g.AddConnection(l, x, 10, 1000, 6, 0)
	g.RemoveConnection(l, x)
	g.RemoveConnection(l, x) // idempotent, must not panic or error

	require.Empty(t, g.ListChannels())
	require.Len(t, g.ListNodes(), 2) // orphan nodes remain
}

// TestAddConnectionIdempotentOnLastWrite covers the round-trip law:
// re-adding an edge with new fees yields an edge whose fields equal the
// new arguments.
func TestAddConnectionIdempotentOnLastWrite(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)

	g.AddConnection(l, x, 10, 1000, 6, 0)
	edge := g.AddConnection(l, x, 20, 2000, 12, 3)

	require.Equal(t, uint32(20), edge.BaseFee)
	require.Equal(t, int32(2000), edge.ProportionalFee)
	require.Equal(t, uint32(12), edge.Delay)
	require.Equal(t, uint32(3), edge.MinBlocks)
	require.Len(t, g.ListChannels(), 1)
}

// TestGraphSymmetricBackPointers verifies every edge is reachable from
// both endpoints' adjacency lists, pointing back at the correct
// src/dst.
func TestGraphSymmetricBackPointers(t *testing.T) {
	g := NewGraph()
	l, x := newTestKey(t), newTestKey(t)
	g.AddConnection(l, x, 10, 1000, 6, 0)

	var lNode, xNode *Node
	for _, n := range g.ListNodes() {
		if n.Key() == nodeKey(l) {
			lNode = n
		} else {
			xNode = n
		}
	}
	require.NotNil(t, lNode)
	require.NotNil(t, xNode)

	for _, e := range lNode.outgoing {
		require.Equal(t, lNode, e.Src)
		require.Contains(t, xNode.incoming, e.Src.Key())
	}
}

// TestRouteEndpointsMatch verifies a successful route's first edge
// starts at L and its last edge ends at D.
func TestRouteEndpointsMatch(t *testing.T) {
	g := NewGraph()
	l, x, y := newTestKey(t), newTestKey(t), newTestKey(t)
	g.AddConnection(l, x, 10, 1000, 6, 0)
	g.AddConnection(x, y, 10, 1000, 6, 0)

	route, err := g.FindRoute(l, y, 1_000_000, 1.0, alwaysLive)
	require.NoError(t, err)
	require.NotNil(t, route)
	require.True(t, route.Edges[0].Src.PubKey.IsEqual(l))
	require.True(t, route.Edges[len(route.Edges)-1].Dst.PubKey.IsEqual(y))
}
