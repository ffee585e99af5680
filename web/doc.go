// Package web serves the analytics dashboard: a single embedded HTML page and
// the JSON API its tabs read from. Handlers degrade to empty payloads when the
// store cannot answer, so a half-loaded database never takes the page down.
package web
