// Package secret resolves secrets referenced from configuration values.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:ALCHEMY_URL
//   - Inline use:  https://eth-mainnet.g.alchemy.com/v2/secretref:file:alchemy.key
//
// Node URLs routinely embed provider API keys, so configuration files should
// carry references rather than the URL itself.
package secret
