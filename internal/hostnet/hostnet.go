// Package hostnet answers questions about the local host the installers
// need before a cluster exists: which address to advertise the API server
// on, and what machine architecture this is.
package hostnet
