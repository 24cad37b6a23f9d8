/*
Package book implements the story model of one book: the indexed story graph and the
navigation cursor driven by the OK, HOME and wheel controls.

A Book is not safe for concurrent use. The runtime controller is its only mutator.
*/
package book
