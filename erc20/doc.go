// Package erc20 provides typed, cached reads of ERC-20 token contracts.
//
// A Token splits its reads between two callers. Metadata (name, symbol,
// decimals) never changes, so it is cached once regardless of block. Balances,
// supply and allowances are state, so they are cached per block and must be
// read at an explicit height.
package erc20
