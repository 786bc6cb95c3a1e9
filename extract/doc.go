// Package extract pulls plain text out of uploaded documents before
// chunking. Only PDF is supported today.
package extract
