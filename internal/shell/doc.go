// Package shell resolves the user's shell once and knows which startup file
// it reads and how a PATH export line for it is spelled.
package shell
