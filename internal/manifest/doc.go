// Package manifest records the content hash of every runtime module produced
// by a generation pass, so consecutive passes can be compared.
package manifest
