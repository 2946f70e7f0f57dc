// Package resource budgets the two resources an edge store consumes:
// address space for read-only mappings and disk write throughput.
//
// A nil *Controller is valid and imposes no limits, so components can hold
// one unconditionally.
package resource
