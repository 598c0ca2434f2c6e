// Package credentials stores the Tencent Cloud API credentials and asks
// for them on the terminal when they are missing.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/txcv/credentials.json  (default: ~/.local/share/txcv/)
//
// The file is a flat JSON object keyed by secret_id, secret_key and region
// and is written with 0600 permissions.
package credentials
