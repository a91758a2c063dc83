package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one minimax decision: how deep it looked, how
// many nodes it expanded, and the branching it saw along the way.
type SearchMetric struct {
	SearchDepth  int
	Duration     time.Duration
	Nodes        int
	AvgBranching float64
}

// MoveMetric ties a search to its position in a game.
type MoveMetric struct {
	Step   int
	Player int // seat number, 1 or 2
	Score  float64
	SearchMetric
}

// GameMetric summarizes one finished game for the performance harness.
type GameMetric struct {
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	Winner            string
	TotalMoves        int
	MinimaxNodes      int
	AvgBranching      float64
	AvgHeuristicDelta float64
	AvgMoveTimeSec    [2]float64 // per seat
}

// AgentConfig describes one configured seat for an experiment run.
type AgentConfig struct {
	ID         int
	Kind       string // random, greedy, minimax, ml, minimax-ml
	Depth      int
	Seed       uint64
	Goroutines int
	ModelPath  string
}

// Collector accumulates search counters. The concrete collector is safe
// for concurrent increments so root-parallel search can share it; the
// dummy variant makes collection free when nobody is reading.
type Collector interface {
	Start(depth int)
	AddNode()
	AddBranching(moves int)
	Complete() SearchMetric
}

type collector struct {
	depth      int
	startTime  time.Time
	nodes      atomic.Int64
	expansions atomic.Int64
	branches   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(depth int) {
	c.depth = depth
	c.startTime = time.Now()
	c.nodes.Store(0)
	c.expansions.Store(0)
	c.branches.Store(0)
}

func (c *collector) AddNode() {
	c.nodes.Add(1)
}

func (c *collector) AddBranching(moves int) {
	c.expansions.Add(1)
	c.branches.Add(int64(moves))
}

func (c *collector) Complete() SearchMetric {
	m := SearchMetric{
		SearchDepth: c.depth,
		Duration:    time.Since(c.startTime),
		Nodes:       int(c.nodes.Load()),
	}
	if expansions := c.expansions.Load(); expansions > 0 {
		m.AvgBranching = float64(c.branches.Load()) / float64(expansions)
	}
	return m
}

type dummyCollector struct{}

// NewDummyCollector returns a no-op collector.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (dummyCollector) Start(depth int)        {}
func (dummyCollector) AddNode()               {}
func (dummyCollector) AddBranching(moves int) {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
