package routing

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/go-errors/errors"
)

// Route is the result of a successful route computation: the peer to
// forward to, the total fee in millisatoshi, and the ordered edge
// sequence from the local node to the destination (exclusive of the
// local node itself).
type Route struct {
	FirstHopPeer *btcec.PublicKey
	FeeMsat      int64
	Edges        []*NodeConnection
}

// FindRoute computes the minimum-cost path from local to dest carrying
// amount msat under risk factor r, using a Bellman-Ford-Gibson
// relaxation over per-hop-count scratch slots. It returns (nil, nil)
// when no route exists: an unreachable destination, or a first hop
// with no known live peer (liveness is reported by the caller via
// isLivePeer).
func (g *Graph) FindRoute(local, dest *btcec.PublicKey, amount int64, r float64, isLivePeer func(*btcec.PublicKey) bool) (*Route, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	localNode, ok := g.nodes[nodeKey(local)]
	if !ok {
		return nil, errors.Errorf("cannot find %x", local.SerializeCompressed())
	}
	destNode, err := g.lookupNode(dest)
	if err != nil {
		return nil, err
	}

	for _, n := range g.nodes {
		n.resetScratch()
	}
	destNode.scratch[0] = scratchSlot{total: amount, risk: 0}

	for iter := 0; iter < MaxHops; iter++ {
		for _, n := range g.nodes {
			for _, c := range n.incoming {
				relax(c, r)
			}
		}
	}

	best := -1
	var bestTotal int64 = Infinite
	for h := 1; h <= MaxHops; h++ {
		total := localNode.scratch[h].total
		if total < bestTotal {
			bestTotal = total
			best = h
		}
	}

	if best == -1 || bestTotal >= Infinite {
		return nil, nil
	}

	edges := make([]*NodeConnection, best)
	cur := localNode
	for h := best; h >= 1; h-- {
		edge := cur.scratch[h].prev
		if edge == nil {
			return nil, nil
		}
		edges[best-h] = edge
		cur = edge.Dst
	}

	firstHop := edges[0].Dst.PubKey
	if isLivePeer != nil && !isLivePeer(firstHop) {
		return nil, nil
	}

	return &Route{
		FirstHopPeer: firstHop,
		FeeMsat:      bestTotal - amount,
		Edges:        edges,
	}, nil
}

// relax applies one incoming edge's contribution to its source node's
// scratch slots. n = c.Dst holds the "already settled" side; c.Src is
// updated.
func relax(c *NodeConnection, r float64) {
	n := c.Dst
	src := c.Src

	for h := 0; h < MaxHops; h++ {
		slot := n.scratch[h]
		if slot.total >= Infinite {
			continue
		}

		// An edge is unusable if the timelock accumulated downstream
		// of it doesn't yet meet what this hop requires to forward.
		if slot.delay < c.MinBlocks {
			continue
		}

		f := fee(c, slot.total)
		if f >= Infinite {
			continue
		}

		newTotal := slot.total + f
		rp := slot.risk + risk(newTotal, c.Delay, r)
		newDelay := slot.delay + c.Delay

		if newTotal+rp < src.scratch[h+1].total+src.scratch[h+1].risk {
			src.scratch[h+1] = scratchSlot{
				total: newTotal,
				risk:  rp,
				delay: newDelay,
				prev:  c,
			}
		}
	}
}
