// Package circuit is the grid logic engine: cells holding directional
// logic elements, the per-tick signal propagation, and the packed binary
// grid format.
//
// A tick runs in three phases. Orthogonally adjacent Points form one
// electrical node: every node is first reset, then switched on as a whole
// when any neighbour asserts a signal into one of its members. Cables,
// gates and splitters then compute their next signal from the grid as it
// stands after the node phases and are swapped in together, so a signal
// moves one directional cell per tick while crossing a whole node at once.
package circuit
