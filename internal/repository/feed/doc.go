// Package feed implements persistence for the appcast Document.
//
// The FileRepository stores and loads the document as XML on disk and
// exposes a Repository interface that both services depend on.
package feed
