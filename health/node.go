package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HeadReader reports the node's latest block number. *ethclient.Client
// satisfies it.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// NodeCheckerConfig configures a NodeChecker.
type NodeCheckerConfig struct {
	// StaleAfter degrades the node when its head has not advanced for this
	// long. Zero disables the staleness check.
	StaleAfter time.Duration

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// NodeChecker asks the node for its head block. An error is unhealthy; a head
// that stops advancing is degraded.
type NodeChecker struct {
	node   HeadReader
	config NodeCheckerConfig

	mu      sync.Mutex
	head    uint64
	movedAt time.Time
}

// NewNodeChecker creates a checker over node.
func NewNodeChecker(node HeadReader, config NodeCheckerConfig) *NodeChecker {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &NodeChecker{node: node, config: config}
}

// Name returns the name of this checker.
func (n *NodeChecker) Name() string {
	return "node"
}

// Check performs the node health check.
func (n *NodeChecker) Check(ctx context.Context) Result {
	if r, done := canceled(ctx); done {
		return r
	}
	if n.node == nil {
		return Unhealthy("no node configured", ErrNilSource)
	}

	head, err := n.node.BlockNumber(ctx)
	if err != nil {
		return Unhealthy("node unreachable", fmt.Errorf("%w: %w", ErrCheckFailed, err))
	}

	now := n.config.Now()
	n.mu.Lock()
	if n.movedAt.IsZero() || head != n.head {
		n.head = head
		n.movedAt = now
	}
	stuck := now.Sub(n.movedAt)
	n.mu.Unlock()

	details := map[string]any{
		"head":       head,
		"head_since": stuck.String(),
	}
	if n.config.StaleAfter > 0 && stuck >= n.config.StaleAfter {
		return Degraded(fmt.Sprintf("head stuck at %d for %s", head, stuck.Round(time.Second))).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("head at %d", head)).WithDetails(details)
}
