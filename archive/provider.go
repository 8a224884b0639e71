package archive

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
)

// ChainStateProvider implements snapshot.StateProvider over a local
// go-ethereum BlockChain that already holds the archival trie history (a
// full or archive-mode node reachable in-process). This is the expected
// production path: Replay's own RPC traffic (via Source) stays limited to
// headers and transaction bodies, while bulk state reads go through the
// local trie database rather than one eth_getProof round trip per slot.
type ChainStateProvider struct {
	chain *core.BlockChain
}

// NewChainStateProvider wraps an already-synced BlockChain.
func NewChainStateProvider(chain *core.BlockChain) *ChainStateProvider {
	return &ChainStateProvider{chain: chain}
}

// StateAt returns the state trie as committed at the end of parentBlock.
func (p *ChainStateProvider) StateAt(ctx context.Context, parentBlock *big.Int) (*state.StateDB, error) {
	header := p.chain.GetHeaderByNumber(parentBlock.Uint64())
	if header == nil {
		return nil, fmt.Errorf("archive: no header at block %s", parentBlock)
	}
	return p.chain.StateAt(header.Root)
}
