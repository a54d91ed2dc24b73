// Package integrationtests exercises the application end to end: graph
// files through loading, evaluation and rendering, and editing sessions
// driven by structured events.
package integrationtests
