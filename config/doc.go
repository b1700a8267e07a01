// Package config loads chaincall settings from a file and CHAINCALL_*
// environment variables.
//
// Every key has a default, so an empty environment yields a usable config
// apart from node.url. The node URL usually embeds an API key; keep it out
// of the file with ${VAR} expansion or a secret reference and call
// ResolveNodeURL:
//
//	node:
//	  url: secretref:file:rpc_url
//	secrets:
//	  dir: /run/secrets
package config
