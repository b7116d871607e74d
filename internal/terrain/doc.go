// Package terrain holds the grid model for the river erosion lab.
//
// A [Terrain] is a square N×N snapshot of [Cell] values stored row-major with
// (0,0) at the top-left corner. Snapshots are immutable: every operation that
// changes a cell returns a new Terrain, so a renderer can keep drawing the
// previous frame while the next one is being computed.
//
//   - [Cell]: ground height, water depth and suspended sediment
//   - [Terrain]: read-only snapshot with bounds-checked access
//   - [Builder]: write buffer used to assemble the next snapshot
//
// Adjacency is 4-connected and always visited in the order of [Directions]:
// up, down, left, right.
package terrain
