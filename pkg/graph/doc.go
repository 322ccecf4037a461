// Package graph defines the assembly graph of a stencil station render.
// The graph is an immutable DAG of parts, transforms, and groups; the
// generator builds one per render and the tessellator walks it.
package graph
