// Package console runs the player in a terminal: a Display that renders
// stage images with ANSI half blocks and a keyboard InputSource.
//
// It is meant for development and demos; devices plug their own panel and
// buttons in through the ports interfaces.
package console
