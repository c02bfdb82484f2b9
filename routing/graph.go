// Package routing implements the routing engine: an in-memory graph of
// channel edges and a Bellman-Ford-Gibson path-finder whose per-edge
// cost depends on the amount being routed.
package routing

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/go-errors/errors"
)

// MaxHops bounds both the path-finding scratch array size and the
// longest route find_route will ever return.
const MaxHops = 20

// BlocksPerYear is the denominator of the per-edge time-lock risk
// premium.
const BlocksPerYear = 52596

// Infinite is used as the initial, unreached cost for every scratch
// slot. It leaves enough headroom below the int64 ceiling that repeated
// additions during relaxation can never overflow.
const Infinite = 0x3FFFFFFFFFFFFFFF

// scratchSlot holds the best known (total, risk, prevEdge) for a path
// of exactly some fixed remaining hop count passing through a node.
type scratchSlot struct {
	total int64
	risk  int64
	delay uint32
	prev  *NodeConnection
}

// Node is a participant in the routing graph, identified by a
// compressed public key.
type Node struct {
	PubKey   *btcec.PublicKey
	Hostname string
	Port     uint16

	outgoing map[string]*NodeConnection
	incoming map[string]*NodeConnection

	scratch [MaxHops + 1]scratchSlot
}

func newNode(pubKey *btcec.PublicKey) *Node {
	return &Node{
		PubKey:   pubKey,
		outgoing: make(map[string]*NodeConnection),
		incoming: make(map[string]*NodeConnection),
	}
}

func (n *Node) resetScratch() {
	for i := range n.scratch {
		n.scratch[i] = scratchSlot{total: Infinite, risk: 0}
	}
}

// Key returns the string form of the node's public key, used as the map
// key throughout the graph.
func (n *Node) Key() string {
	return nodeKey(n.PubKey)
}

func nodeKey(pubKey *btcec.PublicKey) string {
	return string(pubKey.SerializeCompressed())
}

// NodeConnection is a directed channel edge from Src to Dst.
type NodeConnection struct {
	Src *Node
	Dst *Node

	BaseFee         uint32
	ProportionalFee int32
	Delay           uint32
	MinBlocks       uint32
}

// Graph is the routing engine's in-memory channel graph. All mutation
// and route-finding calls are expected to run on a single goroutine;
// the mutex here only guards against accidental concurrent misuse from
// callers that don't honor that contract.
type Graph struct {
	mu    sync.Mutex
	nodes map[string]*Node
}

// NewGraph returns an empty routing graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode upserts a node's display metadata, creating it if it doesn't
// yet exist.
func (g *Graph) AddNode(pubKey *btcec.PublicKey, hostname string, port uint16) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.getOrCreateNode(pubKey)
	n.Hostname = hostname
	n.Port = port
	return n
}

func (g *Graph) getOrCreateNode(pubKey *btcec.PublicKey) *Node {
	key := nodeKey(pubKey)
	n, ok := g.nodes[key]
	if !ok {
		n = newNode(pubKey)
		g.nodes[key] = n
	}
	return n
}

// AddConnection upserts the directed edge (from -> to), creating either
// endpoint node silently if it doesn't already exist. Re-adding an
// existing edge updates its fields in place rather than duplicating it.
func (g *Graph) AddConnection(from, to *btcec.PublicKey, baseFee uint32, proportionalFee int32, delay, minBlocks uint32) *NodeConnection {
	g.mu.Lock()
	defer g.mu.Unlock()

	src := g.getOrCreateNode(from)
	dst := g.getOrCreateNode(to)

	if edge, ok := src.outgoing[dst.Key()]; ok {
		edge.BaseFee = baseFee
		edge.ProportionalFee = proportionalFee
		edge.Delay = delay
		edge.MinBlocks = minBlocks
		return edge
	}

	edge := &NodeConnection{
		Src:             src,
		Dst:             dst,
		BaseFee:         baseFee,
		ProportionalFee: proportionalFee,
		Delay:           delay,
		MinBlocks:       minBlocks,
	}
	src.outgoing[dst.Key()] = edge
	dst.incoming[src.Key()] = edge
	return edge
}

// RemoveConnection removes the directed edge (from -> to) if present.
// Idempotent: removing an absent edge is a no-op. Orphaned nodes are
// left in the graph rather than pruned.
func (g *Graph) RemoveConnection(from, to *btcec.PublicKey) {
	g.mu.Lock()
	defer g.mu.Unlock()

	srcKey := nodeKey(from)
	dstKey := nodeKey(to)

	src, ok := g.nodes[srcKey]
	if !ok {
		return
	}
	dst, ok := g.nodes[dstKey]
	if !ok {
		return
	}

	delete(src.outgoing, dst.Key())
	delete(dst.incoming, src.Key())
}

// ListNodes returns every node currently in the graph.
func (g *Graph) ListNodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// ListChannels returns every edge currently in the graph.
func (g *Graph) ListChannels() []*NodeConnection {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []*NodeConnection
	for _, n := range g.nodes {
		for _, e := range n.outgoing {
			out = append(out, e)
		}
	}
	return out
}

// lookupNode returns the node for pubKey, or an error naming it if
// unknown.
func (g *Graph) lookupNode(pubKey *btcec.PublicKey) (*Node, error) {
	n, ok := g.nodes[nodeKey(pubKey)]
	if !ok {
		log.Errorf("cannot find %x", pubKey.SerializeCompressed())
		return nil, errors.Errorf("cannot find %x", pubKey.SerializeCompressed())
	}
	return n, nil
}
